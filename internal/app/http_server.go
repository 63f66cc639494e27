package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/frudas24/inputsim/internal/control"
	"github.com/frudas24/inputsim/internal/monitor"
	"github.com/frudas24/inputsim/internal/script"
	"github.com/frudas24/inputsim/internal/sim"
	"github.com/frudas24/inputsim/internal/web"
)

// TokenCookie is the name of the auth cookie set by /login.
const TokenCookie = "inputsim_token"

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("POST /logout", a.handleLogout)
	mux.HandleFunc("GET /api/state", a.requireAuth(a.handleState))
	mux.HandleFunc("GET /api/monitors", a.requireAuth(a.handleMonitors))
	mux.HandleFunc("GET /api/cursor", a.requireAuth(a.handleCursor))
	mux.HandleFunc("GET /api/scripts", a.requireAuth(a.handleScripts))
	mux.HandleFunc("POST /api/scripts/reload", a.requireAuth(a.handleReloadScripts))
	mux.HandleFunc("POST /api/scripts/{name}/run", a.requireAuth(a.handleRunScript))
	mux.Handle("/ws/signal", a.Signaling())
	mux.Handle("/ws/control", a.Control())
	mux.HandleFunc("/favicon.ico", handleFavicon)
	mux.Handle("/", staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

type stateResponse struct {
	InputEnabled bool   `json:"inputEnabled"`
	Sessions     int    `json:"sessions"`
	DryRun       bool   `json:"dryRun"`
	Policy       string `json:"policy"`
	Scripts      int    `json:"scripts"`
	ChainError   string `json:"chainError,omitempty"`
}

type cursorResponse struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Normalized *normPoint `json:"normalized,omitempty"`
	Primary    *normPoint `json:"primary,omitempty"`
}

type normPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handleLogin issues a token for the UI password.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	token, ok := a.session.Login(req.Password)
	if !ok {
		a.log.Warnf("login failed from %s", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, loginResponse{OK: true, Token: token})
}

// handleLogout revokes the caller's token.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := requestToken(r); token != "" {
		a.session.Logout(token)
	}
	http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0)})
	writeJSON(w, map[string]bool{"ok": true})
}

// handleState returns the kill switch, session count, and chain status.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := a.session.Snapshot()
	resp := stateResponse{
		InputEnabled: snap.InputEnabled,
		Sessions:     snap.Sessions,
		DryRun:       a.cfg.DryRun,
		Policy:       a.cfg.Policy.String(),
		Scripts:      len(a.ScriptNames()),
	}
	if err := a.sim.Err(); err != nil {
		resp.ChainError = err.Error()
	}
	writeJSON(w, resp)
}

// handleMonitors returns the list of monitors.
func (a *App) handleMonitors(w http.ResponseWriter, _ *http.Request) {
	list, err := a.ListMonitors()
	if err != nil {
		http.Error(w, "failed to list monitors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// handleCursor reports the cursor in pixels and, when the layout is
// known, in the normalized coordinates move_virtual and move_to accept.
func (a *App) handleCursor(w http.ResponseWriter, _ *http.Request) {
	x, y, ok := a.sim.CursorPos()
	if !ok {
		http.Error(w, "cursor position unavailable", http.StatusServiceUnavailable)
		return
	}
	resp := cursorResponse{X: x, Y: y}
	list, err := a.ListMonitors()
	if err != nil {
		writeJSON(w, resp)
		return
	}
	if bounds, err := monitor.VirtualBounds(list); err == nil {
		nx, ny := monitor.Normalize(x, y, bounds)
		resp.Normalized = &normPoint{X: nx, Y: ny}
	}
	if primary, err := monitor.PrimaryMonitor(list); err == nil {
		nx, ny := monitor.Normalize(x, y, primary.Rect())
		resp.Primary = &normPoint{X: nx, Y: ny}
	}
	writeJSON(w, resp)
}

// handleScripts lists loaded script names.
func (a *App) handleScripts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.ScriptNames())
}

// handleReloadScripts rereads the script directory.
func (a *App) handleReloadScripts(w http.ResponseWriter, _ *http.Request) {
	if err := a.ReloadScripts(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, a.ScriptNames())
}

// handleRunScript plays a named script and waits for it.
func (a *App) handleRunScript(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	err := a.dispatcher.RunScript(r.Context(), name)
	switch {
	case err == nil:
		writeJSON(w, map[string]bool{"ok": true})
	case errors.Is(err, script.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, control.ErrInputDisabled):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, sim.ErrInvalidParameter):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sim.ErrPlatformUnsupported):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// authorized reports whether the request carries a valid token.
func (a *App) authorized(r *http.Request) bool {
	return a.session.Valid(requestToken(r))
}

// requireAuth rejects requests without a valid token.
func (a *App) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.authorized(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// requestToken extracts a bearer token or the auth cookie.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
