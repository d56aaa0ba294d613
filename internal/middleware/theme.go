package middleware

import (
	"context"
	"net/http"
)

const (
	ThemeCookieName = "gh_theme"
	ThemeLight      = "light"
	ThemeDark       = "dark"
)

type themeKey struct{}

var validThemes = map[string]bool{
	ThemeLight: true,
	ThemeDark:  true,
}

// IsValidTheme reports whether theme can be stored in the cookie
func IsValidTheme(theme string) bool {
	return validThemes[theme]
}

// ThemeMiddleware injects the user's theme preference into the request context
func ThemeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := ThemeLight
		cookie, err := r.Cookie(ThemeCookieName)
		if err == nil && validThemes[cookie.Value] {
			theme = cookie.Value
		}

		ctx := context.WithValue(r.Context(), themeKey{}, theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ThemeFromContext returns the theme stored by ThemeMiddleware, light by default
func ThemeFromContext(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey{}).(string); ok {
		return theme
	}
	return ThemeLight
}
