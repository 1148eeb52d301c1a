// Package middleware holds the HTTP middleware chain shared by every route.
package middleware

import (
	"net/http"

	"github.com/diewo77/seeker/i18n"
	"github.com/diewo77/seeker/view"
)

const langCookie = "lang"

// Prefs resolves the display language (cookie > query > header) and stores it in context.
// A query-provided language is persisted in a cookie for ~30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie(langCookie); err == nil {
			lang = c.Value
		}
		if ql := r.URL.Query().Get("lang"); ql != "" && i18n.Supported(ql) {
			lang = ql
			http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: 86400 * 30})
		}
		if !i18n.Supported(lang) {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

// LangFrom returns the request language, defaulting to English.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// Flash queues a translated status message for the next page.
func Flash(w http.ResponseWriter, r *http.Request, kind, code string) {
	view.SetFlash(w, kind, i18n.T(LangFrom(r), code))
}
