package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerIngestionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/ingest/{dataset}", handler.IngestDataset)
	mux.HandleFunc("POST /v1/refresh", handler.Refresh)
}

func registerAnalysisRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{kind}", handler.ListPlayers)
	mux.HandleFunc("GET /v1/analysis/batting-by-country", handler.GetBattingByCountry)
	mux.HandleFunc("GET /v1/analysis/bowling-by-country", handler.GetBowlingByCountry)
	mux.HandleFunc("GET /v1/analysis/batsman-vs-bowler", handler.GetBatsmanVsBowler)
	mux.HandleFunc("GET /v1/analysis/batting-outcomes", handler.GetBattingOutcomes)
	mux.HandleFunc("GET /v1/analysis/bowling-outcomes", handler.GetBowlingOutcomes)
	mux.HandleFunc("GET /v1/analysis/batting-series", handler.GetBattingSeries)
}
