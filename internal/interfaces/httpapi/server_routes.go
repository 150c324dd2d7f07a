package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/schedule", handler.GetSchedule)
	mux.HandleFunc("GET /v1/schedule/export", handler.ExportSchedule)
	mux.HandleFunc("GET /v1/matchweeks", handler.ListMatchweeks)
	mux.HandleFunc("GET /v1/matches/{matchID}/stats", handler.GetMatchStats)
	mux.HandleFunc("POST /v1/cache/flush", handler.FlushCaches)
}
