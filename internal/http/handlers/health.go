package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// HealthCheckHandler reports liveness and how long the server has been up.
func HealthCheckHandler(started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(started).Truncate(time.Second)
		log.Debug("Health check", "uptime", uptime)
		writeJSON(w, healthResponse{Status: "ok", Uptime: uptime.String()})
	}
}
