package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/streamkit/caption-engine/internal/store"
)

type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Sessions      int    `json:"sessions"`
	Goroutines    int    `json:"goroutines"`
}

type HealthHandler struct {
	store     *store.Store
	version   string
	startTime time.Time
}

func NewHealthHandler(st *store.Store, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{store: st, version: version, startTime: startTime}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Sessions:      h.store.Len(),
		Goroutines:    runtime.NumGoroutine(),
	})
}
