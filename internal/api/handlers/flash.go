package handlers

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "flash"

// setFlash queues a one-shot notice for the next page render.
func setFlash(w http.ResponseWriter, level, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(level + "|" + message),
		Path:  "/",
	})
}

// popFlash reads and clears the pending notice, if any.
func popFlash(w http.ResponseWriter, r *http.Request) (level, message string) {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return "", ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:   flashCookie,
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})

	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", ""
	}
	parts := strings.SplitN(decoded, "|", 2)
	if len(parts) != 2 {
		return "", decoded
	}
	return parts[0], parts[1]
}
