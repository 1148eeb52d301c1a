package view

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookieName = "flash"

// Flash kinds, used as CSS modifiers.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FlashMessage is a one-shot status line shown on the next rendered page.
type FlashMessage struct {
	Kind    string
	Message string
}

// SetFlash stores a message for the next page render.
func SetFlash(w http.ResponseWriter, kind, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the pending flash message.
func PopFlash(w http.ResponseWriter, r *http.Request) (FlashMessage, bool) {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return FlashMessage{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return FlashMessage{}, false
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return FlashMessage{Kind: FlashSuccess, Message: raw}, true
	}
	return FlashMessage{Kind: kind, Message: msg}, true
}
