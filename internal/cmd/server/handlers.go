package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rhettg/sysinfo/internal/sysinfo"
	"github.com/rhettg/sysinfo/internal/watch"
)

type resource struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

type status struct {
	Name      string         `json:"name"`
	Revision  string         `json:"revision"`
	UpTime    int64          `json:"uptime"`
	Facts     sysinfo.Report `json:"facts"`
	Resources []resource     `json:"resources"`
}

func home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", "/v1")
	w.WriteHeader(http.StatusTemporaryRedirect)
}

func errorResponse(w http.ResponseWriter, respErr error, statusCode int) {
	resp := struct {
		Error string `json:"error"`
	}{Error: respErr.Error()}

	err := sendResponse(w, resp, statusCode)
	if err != nil {
		slog.Error("error sending response", "error", err)
		return
	}
}

func sendResponse(w http.ResponseWriter, resp interface{}, statusCode int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(resp)
}

func (s *Server) homev1(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, errors.New("GET required"), http.StatusMethodNotAllowed)
		return
	}

	report := s.Info.Report()
	resp := status{
		Name:     s.Name,
		Revision: report.SourceRevision,
		UpTime:   int64(time.Since(s.startTime).Seconds()),
		Facts:    report,
		Resources: []resource{
			{Name: "metrics", Ref: "/metrics"},
			{Name: "reload", Ref: "/v1/reload"},
			{Name: "watch", Ref: "/v1/watch"},
		},
	}

	err := sendResponse(w, resp, http.StatusOK)
	if err != nil {
		slog.Error("error sending response", "error", err)
		return
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorResponse(w, errors.New("POST required"), http.StatusMethodNotAllowed)
		return
	}

	report := s.ReloadScripts(r.Context())

	err := sendResponse(w, report, http.StatusOK)
	if err != nil {
		slog.Error("error sending response", "error", err)
		return
	}
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, errors.New("GET required"), http.StatusMethodNotAllowed)
		return
	}

	slog.Info("watch started")
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	err := watch.Stream(r.Context(), w, s.watchers, s.Info.Report)
	if err != nil {
		slog.Error("error streaming reports", "error", err)
		return
	}
	slog.Info("watch complete")
}
