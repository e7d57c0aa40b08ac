// Package server exposes the fitting room over HTTP: the fitting page, photo
// upload, rendered look preview/download, avatar save, and the catalog.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/SandySeal/virtualFitting/internal/config"
	"github.com/SandySeal/virtualFitting/internal/fitting"
)

// Server serves the fitting room UI and its image endpoints.
type Server struct {
	*http.Server
	log            *slog.Logger
	room           *fitting.Room
	maxUploadBytes int64
	thumbHeight    int
	minScale       float64
	maxScale       float64
}

// New wires a Server around the given room.
func New(cfg *config.Config, room *fitting.Room, log *slog.Logger) *Server {
	server := &Server{
		log:            log,
		room:           room,
		maxUploadBytes: int64(cfg.MaxUploadMB) * 1024 * 1024,
		thumbHeight:    cfg.ThumbnailHeight,
		minScale:       cfg.MinScale,
		maxScale:       cfg.MaxScale,
	}

	mux := http.NewServeMux()
	mux.Handle("/", server)

	server.Server = &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	return server
}

// Listen starts serving and blocks until the server stops.
func (server *Server) Listen() error {
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (server *Server) Shutdown(ctx context.Context) error {
	if err := server.Server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}

func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		server.handleIndex(w, r)
	case r.URL.Path == "/upload" && r.Method == http.MethodPost:
		server.handleUpload(w, r)
	case r.URL.Path == "/look.png" && r.Method == http.MethodGet:
		server.handleLook(w, r)
	case r.URL.Path == "/download" && r.Method == http.MethodGet:
		server.handleDownload(w, r)
	case r.URL.Path == "/avatar" && r.Method == http.MethodPost:
		server.handleAvatar(w, r)
	case r.URL.Path == "/catalog" && r.Method == http.MethodGet:
		server.handleCatalog(w, r)
	case r.URL.Path == "/palette" && r.Method == http.MethodGet:
		server.handlePalette(w, r)
	case r.URL.Path == "/share" && r.Method == http.MethodGet:
		server.handleShare(w, r)
	case strings.HasPrefix(r.URL.Path, "/photos/") && r.Method == http.MethodGet:
		server.handlePhoto(w, r)
	case strings.HasPrefix(r.URL.Path, "/clothing/") && r.Method == http.MethodGet:
		server.handleClothing(w, r)
	default:
		server.serveNotFound(w)
	}
}

func (server *Server) serveFile(file, contentType string, res http.ResponseWriter) {
	fp, err := os.Open(file)
	if err != nil {
		server.writeErr(err, res)
		return
	}
	defer fp.Close()

	res.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(res, fp); err != nil {
		server.log.Error("failed to stream file", "path", file, "err", err)
	}
}

func (server *Server) serveNotFound(res http.ResponseWriter) {
	res.WriteHeader(http.StatusNotFound)
	server.writeTemplate(NotFound, nil, res)
}

func (server *Server) writeTemplate(tmpl *template.Template, ctx interface{}, res http.ResponseWriter) {
	if err := tmpl.Execute(res, ctx); err != nil {
		server.writeErr(err, res)
	}
}

func (server *Server) writeErr(err error, res http.ResponseWriter) {
	res.WriteHeader(http.StatusInternalServerError)
	Error.Execute(res, err)
	server.log.Error("request failed", "err", err)
}
