package utils

import (
	"context"
)

type contextKey string

const (
	TokenKey  contextKey = "token"
	OwnerKey  contextKey = "owner"
	LocaleKey contextKey = "locale"
	ThemeKey  contextKey = "theme"
)

// GetTokenFromContext mendapatkan bearer token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

// SetTokenContext menyimpan token dan owner key turunannya
func SetTokenContext(ctx context.Context, token string) context.Context {
	ctx = context.WithValue(ctx, TokenKey, token)
	ctx = context.WithValue(ctx, OwnerKey, HashToken(token))
	return ctx
}

func GetOwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(OwnerKey).(string)
	return owner, ok && owner != ""
}

func SetLocaleContext(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, LocaleKey, locale)
}

func GetLocaleFromContext(ctx context.Context) string {
	locale, _ := ctx.Value(LocaleKey).(string)
	return locale
}

func SetThemeContext(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, ThemeKey, theme)
}

func GetThemeFromContext(ctx context.Context) string {
	theme, _ := ctx.Value(ThemeKey).(string)
	return theme
}
