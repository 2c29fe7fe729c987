// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"strconv"
	"testing"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       models.PageRequest
		expected models.PageRequest
	}{
		{"defaults", models.PageRequest{}, models.PageRequest{Page: 1, Limit: 10}},
		{"negative", models.PageRequest{Page: -2, Limit: -1}, models.PageRequest{Page: 1, Limit: 10}},
		{"kept", models.PageRequest{Page: 3, Limit: 25}, models.PageRequest{Page: 3, Limit: 25}},
		{"capped", models.PageRequest{Page: 1, Limit: 1000}, models.PageRequest{Page: 1, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Normalize())
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, models.PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, models.PageRequest{Page: 3, Limit: 10}.Offset())
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		req        models.PageRequest
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"empty", 0, models.PageRequest{Page: 1, Limit: 10}, 0, false, false},
		{"single page", 7, models.PageRequest{Page: 1, Limit: 10}, 1, false, false},
		{"first of many", 25, models.PageRequest{Page: 1, Limit: 10}, 3, true, false},
		{"middle", 25, models.PageRequest{Page: 2, Limit: 10}, 3, true, true},
		{"last", 25, models.PageRequest{Page: 3, Limit: 10}, 3, false, true},
		{"exact multiple", 20, models.PageRequest{Page: 2, Limit: 10}, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.NewPage[int](nil, tt.total, tt.req)

			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.req.Page, p.CurrentPage)
			assert.Equal(t, tt.req.Limit, p.PerPage)
			assert.Equal(t, tt.hasNext, p.HasNextPage)
			assert.Equal(t, tt.hasPrev, p.HasPrevPage)
			assert.NotNil(t, p.Results)
		})
	}
}

func TestMapPage(t *testing.T) {
	p := models.NewPage([]int{1, 2, 3}, 13, models.PageRequest{Page: 2, Limit: 3})

	mapped := models.MapPage(p, strconv.Itoa)

	assert.Equal(t, []string{"1", "2", "3"}, mapped.Results)
	assert.Equal(t, p.Total, mapped.Total)
	assert.Equal(t, p.TotalPages, mapped.TotalPages)
	assert.True(t, mapped.HasNextPage)
	assert.True(t, mapped.HasPrevPage)
}

func TestJSONList_Scan(t *testing.T) {
	var blocks models.JSONList[models.ContentBlock]

	require.NoError(t, blocks.Scan(`[{"title":"a","paragraph":"b"}]`))
	assert.Equal(t, models.JSONList[models.ContentBlock]{{Title: "a", Paragraph: "b"}}, blocks)

	require.NoError(t, blocks.Scan([]byte(`null`)))
	assert.NotNil(t, blocks)
	assert.Empty(t, blocks)

	require.NoError(t, blocks.Scan(nil))
	assert.Empty(t, blocks)

	assert.Error(t, blocks.Scan(42))
}

func TestJSONList_ValueNil(t *testing.T) {
	var images models.JSONList[string]

	v, err := images.Value()

	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
