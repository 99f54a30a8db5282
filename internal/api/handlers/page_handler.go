package handlers

import (
	"html/template"
	"net/http"

	"github.com/herballink/herballink-be/internal/auth"
	"github.com/rs/zerolog/log"
)

// pageShell is the minimal shell rendered for page routes; the real UI is a
// frontend concern, these exist so the documented routes respond.
var pageShell = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>HerbalLink — {{.Title}}</title></head>
<body>
{{if .FlashMessage}}<div class="flash flash-{{.FlashLevel}}">{{.FlashMessage}}</div>{{end}}
<h1>{{.Title}}</h1>
{{if .Fullname}}<p>Logged in as {{.Fullname}}</p>{{end}}
</body>
</html>
`))

type pageData struct {
	Title        string
	FlashLevel   string
	FlashMessage string
	Fullname     string
}

// PageHandler serves the template-shell routes.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home renders the landing page.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Welcome")
}

// Explore redirects visitors to the login page.
func (h *PageHandler) Explore(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ScanHome renders the scan selection page.
func (h *PageHandler) ScanHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Scan")
}

// ScanLeaf renders the leaf scan page.
func (h *PageHandler) ScanLeaf(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Scan a Leaf")
}

// ScanSkin renders the skin scan page.
func (h *PageHandler) ScanSkin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Scan Skin")
}

// RegisterPage renders the registration form shell.
func (h *PageHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Register")
}

// LoginPage renders the login form shell.
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Login")
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, title string) {
	level, message := popFlash(w, r)
	data := pageData{Title: title, FlashLevel: level, FlashMessage: message}
	if claims, ok := auth.FromContext(r.Context()); ok {
		data.Fullname = claims.Fullname
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageShell.Execute(w, data); err != nil {
		log.Error().Err(err).Str("page", title).Msg("Failed to render page")
	}
}
