package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/vertramos/eco-reporte/internal/handler"    // import the handlers that implement business logic
	"github.com/vertramos/eco-reporte/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/vertramos/eco-reporte/internal/model"      // role name constants for the route table
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth      *handler.AuthHandler
	Reports   *handler.ReportHandler
	Zones     *handler.ZoneHandler
	Collector *handler.CollectorHandler
	PerCapita *handler.PerCapitaHandler
	Location  *handler.LocationHandler
	User      *handler.UserHandler
	Dashboard *handler.DashboardHandler
}

// Register wires the complete route table. Each protected group carries
// JWTAuth plus a static allowed-role set, so the authorization decision
// for every route is visible in one place.
//
// loginLimit is the rate-limit middleware applied to the credential
// endpoints; pass a no-op middleware to disable it.
func Register(e *echo.Echo, h Handlers, jwtSecret string, loginLimit echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public session endpoints. The login routes are rate limited per
	// client IP to slow down credential guessing.
	e.POST("/login", h.Auth.Login, loginLimit)
	e.POST("/google-login", h.Auth.GoogleLogin, loginLimit)
	e.POST("/refresh", h.Auth.Refresh)
	e.POST("/validate-refresh-token", h.Auth.ValidateRefreshToken)

	// Admin-only routes.
	admin := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/recolectores/create", h.Collector.Create)
	admin.GET("/recolectores/index", h.Collector.List)
	admin.PUT("/recolectores/update/:id", h.Collector.Update)
	admin.GET("/reports/all", h.Reports.ListAll)
	admin.PUT("/reports/update-status/:id", h.Reports.UpdateStatus)
	admin.GET("/admin/dashboard", h.Dashboard.Metrics)
	admin.GET("/admin/dashboard/per-capita", h.Dashboard.PerCapitaSummary)
	admin.POST("/zona/create", h.Zones.Create)
	admin.PUT("/zona/update/:id", h.Zones.Update)

	// Citizen routes.
	citizen := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleUser))
	citizen.GET("/locations/getCollector", h.Location.GetCollector)
	citizen.POST("/reports/create", h.Reports.Create)
	citizen.GET("/reports/list", h.Reports.List)
	citizen.GET("/user/profile", h.User.Profile)
	citizen.PUT("/user/update-zona", h.User.UpdateZone)
	citizen.GET("/perCapita/check-today", h.PerCapita.CheckToday)
	citizen.POST("/perCapita/create", h.PerCapita.Create)
	citizen.GET("/perCapita/list", h.PerCapita.List)

	// Collector routes.
	collector := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleCollector))
	collector.POST("/locations/update", h.Location.Update)

	// Zone listing is shared between admins and citizens picking a zone.
	zones := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	zones.GET("/zona/list", h.Zones.List)

	// Logout is available to any authenticated role.
	logout := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleUser, model.RoleCollector))
	logout.POST("/logout", h.Auth.Logout)
}
