package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/gameweeks", handler.ListGameweeks)
	mux.HandleFunc("GET /v1/gameweeks/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/gameweeks/{gameweekID}", handler.GetGameweek)
	mux.HandleFunc("GET /v1/scoring-rules", handler.ListScoringRules)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/squads/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMySquad)))
	mux.Handle("PUT /v1/squads/me", RequireAuth(verifier, http.HandlerFunc(handler.SaveMySquad)))
	mux.Handle("GET /v1/transfers", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTransfers)))
	mux.Handle("GET /v1/transfers/availability", RequireAuth(verifier, http.HandlerFunc(handler.GetTransferAvailability)))
	mux.Handle("POST /v1/transfers", RequireAuth(verifier, http.HandlerFunc(handler.MakeTransfer)))
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("GET /v1/leagues/{leagueID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.GetLeagueStandings)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/gameweeks", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreateGameweek))))
	mux.Handle("POST /v1/admin/gameweeks/{gameweekID}/current", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.SetCurrentGameweek))))
	mux.Handle("POST /v1/admin/gameweeks/{gameweekID}/finish", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.FinishGameweek))))
	mux.Handle("PUT /v1/admin/players/{playerID}/price", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.UpdatePlayerPrice))))
	mux.Handle("PUT /v1/admin/scoring-rules", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.UpdateScoringRules))))
	mux.Handle("POST /v1/admin/gameweeks/{gameweekID}/stats", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.IngestGameweekStats))))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/pull-stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPullStatsJob)))
	mux.Handle("POST /v1/internal/jobs/score-gameweek", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoreGameweekJob)))
}
