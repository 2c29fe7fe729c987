// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/alumni-api/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	err := i18n.Init()
	require.NoError(t, err)
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	en := i18n.WithLocale(context.Background(), language.English)
	ru := i18n.WithLocale(context.Background(), language.Russian)

	assert.Equal(t, "Your confirmation code", i18n.T(en, "otp_subject"))
	assert.Equal(t, "Ваш код подтверждения", i18n.T(ru, "otp_subject"))
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	// Should return the key itself for unknown messages
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	require.NoError(t, i18n.Init())

	result := i18n.T(context.Background(), "otp_heading")

	assert.Equal(t, "Введите код в приложении", result)
}

func TestTData(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.TData(ctx, "otp_body", map[string]any{"Code": "012345"})
	assert.Equal(t, "Your confirmation code is 012345", result)

	result = i18n.TData(ctx, "activation_subject", map[string]any{"Site": "https://alumni.example.com"})
	assert.Equal(t, "Account activation on https://alumni.example.com", result)
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		expected       language.Tag
		acceptLanguage string
	}{
		{language.English, "en"},
		{language.English, "en-US"},
		{language.Russian, "ru"},
		{language.Russian, "ru-RU"},
		{language.Russian, "fr"}, // fallback to Russian
		{language.Russian, ""},   // empty defaults to Russian
		{language.Russian, "ru, en;q=0.9"},
		{language.English, "en, ru;q=0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			tag := i18n.MatchLanguage(tt.acceptLanguage)
			// Compare base language (ignore region)
			assert.Equal(t, tt.expected.String()[:2], tag.String()[:2])
		})
	}
}

func TestWithLocale(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.MustParse("en-GB"))

	assert.Equal(t, "en", i18n.GetLocale(ctx))
}

func TestGetLocale_Default(t *testing.T) {
	assert.Equal(t, i18n.DefaultLocale, i18n.GetLocale(context.Background()))
}
