package main

import (
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "sdg-dashboard"

	flashStatus = "status"
	flashSmoke  = "smoke"

	recentRunsLimit = 10
)

type PageData struct {
	Title  string
	Status string
	Smoke  string
	Runs   []Run
}

func newSessionStore(cfg Config) (sessions.Store, error) {
	key, err := cfg.sessionKey()
	if err != nil {
		return nil, err
	}
	// Reports with a traceback outgrow a cookie, so the values live on disk
	// and the cookie only carries the session id.
	store := sessions.NewFilesystemStore(cfg.SessionDir, key)
	store.MaxLength(0)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}

func (a *app) indexHandler(w http.ResponseWriter, r *http.Request) {
	session, _ := a.sessions.Get(r, sessionName)

	data := PageData{
		Title:  "SDG Hub Status Dashboard",
		Status: popFlash(session, flashStatus),
		Smoke:  popFlash(session, flashSmoke),
		Runs:   a.recentRuns(r.Context(), recentRunsLimit),
	}
	// Only a session that came with the request can hold flashes to clear.
	// Saving a new one would leave a file on disk per cookieless visit.
	if !session.IsNew {
		if err := session.Save(r, w); err != nil {
			httpLog.Warn().Err(err).Msg("Error saving session")
		}
	}

	tmpl, err := template.ParseFiles(a.cfg.TemplatePath+"layout.html", a.cfg.TemplatePath+"index.html")
	if err != nil {
		httpLog.Error().Err(err).Msg("Error parsing templates")
		http.Error(w, "Error loading templates", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		httpLog.Error().Err(err).Msg("Error executing template")
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

func (a *app) statusHandler(w http.ResponseWriter, r *http.Request) {
	report := a.checkStatus(r.Context(), sourceOperator)
	a.flashAndRedirect(w, r, flashStatus, report)
}

func (a *app) smokeTestHandler(w http.ResponseWriter, r *http.Request) {
	report := a.smokeTest(r.Context(), sourceOperator)
	a.flashAndRedirect(w, r, flashSmoke, report)
}

func (a *app) apiStatusHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, a.checkStatus(r.Context(), sourceAPI))
}

func (a *app) apiSmokeTestHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, a.smokeTest(r.Context(), sourceAPI))
}

// flashAndRedirect stores report for the next page view and sends the
// browser back to the dashboard.
func (a *app) flashAndRedirect(w http.ResponseWriter, r *http.Request, key, report string) {
	session, _ := a.sessions.Get(r, sessionName)
	session.AddFlash(report, key)
	if err := session.Save(r, w); err != nil {
		httpLog.Error().Err(err).Msg("Failed to save session")
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func popFlash(session *sessions.Session, key string) string {
	flashes := session.Flashes(key)
	if len(flashes) == 0 {
		return ""
	}
	// the latest click wins
	s, _ := flashes[len(flashes)-1].(string)
	return s
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(body)); err != nil {
		httpLog.Warn().Err(err).Msg("Error writing response")
	}
}
