package middleware

import (
	"net/http"

	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"
)

// Locale resolves the request language from the lang query param or
// Accept-Language and stores its code in the context.
func Locale(translator *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var locale i18n.Locale
			if lang := r.URL.Query().Get("lang"); lang != "" {
				locale = translator.Resolve(lang)
			} else {
				locale = translator.Resolve(r.Header.Get("Accept-Language"))
			}

			w.Header().Set("Content-Language", locale.Code())
			ctx := utils.SetLocaleContext(r.Context(), locale.Code())
			ctx = utils.SetThemeContext(ctx, r.Header.Get("X-Theme"))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
