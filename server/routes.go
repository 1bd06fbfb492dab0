package server

import (
	"net/http"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthProfile, ChainMiddleware(s.RequireAuth(s.ProfileHandler()), s.APIMiddleware()...))

	// ANALYTICS
	for _, route := range []string{RouteAnalytics, RouteCCTNS} {
		s.RegisterRouteHandler("GET "+route, ChainMiddleware(s.RequireAuth(s.AnalyticsHandler()), s.APIMiddleware()...))
	}
	for _, route := range []string{RouteAnalyticsGoodWork, RouteCCTNSGoodWork} {
		s.RegisterRouteHandler("POST "+route, ChainMiddleware(s.RequireAuth(s.GoodWorkHandler()), s.APIMiddleware()...))
	}

	// BULLETINS
	s.RegisterRouteHandler("GET "+RoutePressReleases, ChainMiddleware(s.RequireAuth(s.PressReleasesHandler()), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePressReleases, ChainMiddleware(s.RequireAuth(s.CreatePressReleaseHandler()), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCrimeAlerts, ChainMiddleware(s.RequireAuth(s.CrimeAlertsHandler()), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCrimeAlerts, ChainMiddleware(s.RequireAuth(s.CreateCrimeAlertHandler()), s.APIMiddleware()...))

	// ADMIN
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.RequireAuth(s.AdminUsersListHandler()), s.APIMiddleware()...))
	s.RegisterRouteHandler("PUT "+RouteAdminUserRole, ChainMiddleware(s.RequireAuth(s.AdminUpdateRoleHandler()), s.APIMiddleware()...))

	// CORS preflight for every API route
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.APIMiddleware()...))
}
