package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth = "/health"

	// Auth Routes
	RouteAuthRegister = "/api/auth/register"
	RouteAuthLogin    = "/api/auth/login"
	RouteAuthProfile  = "/api/auth/profile"

	// Analytics Routes. The cctns prefix is kept for older dashboard builds.
	RouteAnalytics         = "/api/analytics/{key}"
	RouteAnalyticsGoodWork = "/api/analytics/good-work"
	RouteCCTNS             = "/api/cctns/{key}"
	RouteCCTNSGoodWork     = "/api/cctns/good-work"

	// Bulletin Routes
	RoutePressReleases = "/api/press-releases"
	RouteCrimeAlerts   = "/api/crime-alerts"

	// Admin Routes
	RouteAdminUsers    = "/api/admin/users"
	RouteAdminUserRole = "/api/admin/users/{id}/role"
)
