// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"github.com/labstack/echo/v4"
)

// requestForm reads JSON objects and multipart or urlencoded forms alike.
// JSON strings are stored unquoted, other JSON values as their raw text.
type requestForm struct {
	values map[string]string
	files  map[string][]*multipart.FileHeader
}

func readForm(c echo.Context) (*requestForm, error) {
	f := &requestForm{values: map[string]string{}}
	req := c.Request()
	ct := req.Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(ct, echo.MIMEApplicationJSON):
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, NewAPIError(http.StatusBadRequest, MsgValidation)
		}
		for k, v := range raw {
			var s string
			if json.Unmarshal(v, &s) == nil {
				f.values[k] = s
			} else if string(v) != "null" {
				f.values[k] = string(v)
			}
		}
	case strings.HasPrefix(ct, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, NewAPIError(http.StatusBadRequest, MsgValidation)
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				f.values[k] = v[0]
			}
		}
		f.files = form.File
	default:
		params, err := c.FormParams()
		if err != nil {
			return nil, NewAPIError(http.StatusBadRequest, MsgValidation)
		}
		for k, v := range params {
			if len(v) > 0 {
				f.values[k] = v[0]
			}
		}
	}
	return f, nil
}

func (f *requestForm) get(key string) string {
	return f.values[key]
}

// ptr returns the value of key, or nil when the key was not sent.
func (f *requestForm) ptr(key string) *string {
	v, ok := f.values[key]
	if !ok {
		return nil
	}
	return &v
}

// jsonList decodes the JSON array sent under key into dst. It reports
// whether the key was present.
func (f *requestForm) jsonList(v *validator, key string, dst any) bool {
	raw, ok := f.values[key]
	if !ok {
		return false
	}
	v.check(json.Unmarshal([]byte(raw), dst) == nil, key, MsgJSONList)
	return true
}

// uploads opens the files sent under field, at most limit of them. The
// returned function closes every opened file.
func (f *requestForm) uploads(v *validator, field string, limit int) ([]images.Upload, func(), error) {
	headers := f.files[field]
	closeAll := func() {}
	if len(headers) > limit {
		v.check(false, field, tooMany(limit))
		return nil, closeAll, nil
	}

	var opened []multipart.File
	closeAll = func() {
		for _, file := range opened {
			_ = file.Close()
		}
	}

	out := make([]images.Upload, 0, len(headers))
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, file)
		out = append(out, images.Upload{Filename: fh.Filename, Content: file})
	}
	return out, closeAll, nil
}

// upload is uploads for single-file fields.
func (f *requestForm) upload(v *validator, field string) (*images.Upload, func(), error) {
	list, closeAll, err := f.uploads(v, field, 1)
	if err != nil || len(list) == 0 {
		return nil, closeAll, err
	}
	return &list[0], closeAll, nil
}

func tooMany(limit int) string {
	if limit == 1 {
		return "Only one file allowed"
	}
	return "Too many files, maximum " + strconv.Itoa(limit)
}
