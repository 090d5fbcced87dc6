package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games/{gameId}/timeline", handler.GetGameTimeline)
	mux.HandleFunc("GET /v1/games/{gameId}/rosters", handler.GetGameRosters)
	mux.HandleFunc("GET /v1/games/{gameId}/shifts", handler.GetGameShifts)
	mux.HandleFunc("POST /v1/games/reconcile", handler.ReconcileGames)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/schedule/{teamSlug}/{season}", handler.GetClubSchedule)
	mux.HandleFunc("GET /v1/standings/{date}", handler.GetStandings)
	mux.HandleFunc("GET /v1/draft/{year}/{round}", handler.GetDraftPicks)
	mux.HandleFunc("GET /v1/draft-rankings/{year}/{category}", handler.GetDraftRankings)
	mux.HandleFunc("GET /v1/teams", handler.ListFranchises)
}
