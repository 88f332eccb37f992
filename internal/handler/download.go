package handler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/Riddhikharpe/house-helpers/internal/auth"
	"github.com/Riddhikharpe/house-helpers/internal/model"
)

// Downloader is what DownloadHandler needs from the download service.
type Downloader interface {
	Download(ctx context.Context, username, password string) (*model.DownloadArtifact, error)
	Login(ctx context.Context, username, password string) (string, error)
	Artifact(ctx context.Context, username string) (*model.DownloadArtifact, error)
}

// DownloadHandler serves the "Download Data" section.
//
// Two ways in:
//   - POST /api/download with username and password form fields, one step
//   - POST /api/login to get a token cookie, then GET /api/download behind
//     auth.RequireAuth
type DownloadHandler struct {
	downloads Downloader
	tokenTTL  time.Duration
	logger    *slog.Logger
}

// NewDownloadHandler creates a DownloadHandler. tokenTTL sets the cookie
// lifetime and should match the token service's TTL.
func NewDownloadHandler(downloads Downloader, tokenTTL time.Duration, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		downloads: downloads,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// HandleLogin checks the credentials and sets the download cookie.
//
// HTTP: POST /api/login
// BODY: form fields username, password
//
// The cookie is:
//   - HttpOnly: page scripts can't read it
//   - SameSite=Lax: not sent on cross-site POSTs
//   - as short-lived as the token inside it
func (h *DownloadHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	token, err := h.downloads.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Login successful"})
}

// HandleLogout clears the download cookie.
//
// HTTP: POST /api/logout
func (h *DownloadHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// HandleDownload checks form credentials and streams the table file.
//
// HTTP: POST /api/download
func (h *DownloadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.downloads.Download(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeArtifact(w, artifact)
}

// HandleDownloadAuthenticated streams the table file to a user who already
// logged in. Must be mounted behind auth.RequireAuth.
//
// HTTP: GET /api/download
func (h *DownloadHandler) HandleDownloadAuthenticated(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Please log in to download the file",
		})
		return
	}

	artifact, err := h.downloads.Artifact(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeArtifact(w, artifact)
}

func (h *DownloadHandler) writeArtifact(w http.ResponseWriter, a *model.DownloadArtifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		h.logger.Warn("download interrupted", slog.String("error", err.Error()))
	}
}
