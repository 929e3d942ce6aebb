package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; /v1/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only mints a new
	// access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer token (revoke all sessions) or a
	// refresh_token body (revoke one session); no JWT middleware so an
	// expired access token can still log out.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	auth.GET("/me", a.Me)
}

// RegisterBooking registers the reservation, availability and pricing
// quote endpoints.  All of them require an authenticated staff or admin
// user.
func RegisterBooking(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))

	g.POST("/reservations", r.Create)
	g.GET("/reservations", r.List)
	g.GET("/reservations/:id", r.Get)
	g.PATCH("/reservations/:id", r.Patch)
	g.DELETE("/reservations/:id", r.Cancel)

	g.GET("/availability", r.Availability)
	g.GET("/pricing/quote", r.Quote)
}

// RegisterAdmin registers the catalog management endpoints.  Reads are
// open to staff; writes require the ADMIN role.
func RegisterAdmin(e *echo.Echo, tt *handler.TableTypeHandler, t *handler.TableHandler, cl *handler.ClientHandler, pr *handler.PricingRuleHandler, jwtSecret string) {
	read := e.Group("/v1")
	read.Use(middleware.JWTAuth(jwtSecret))
	read.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))

	read.GET("/table-types", tt.List)
	read.GET("/table-types/:id", tt.Get)
	read.GET("/tables", t.List)
	read.GET("/tables/:id", t.Get)
	read.GET("/clients", cl.List)
	read.GET("/clients/:id", cl.Get)
	read.GET("/pricing-rules", pr.List)
	read.GET("/pricing-rules/:id", pr.Get)

	// Staff can manage the client book; everything else is admin-only.
	read.POST("/clients", cl.Create)
	read.PUT("/clients/:id", cl.Update)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.POST("/table-types", tt.Create)
	admin.PUT("/table-types/:id", tt.Update)
	admin.DELETE("/table-types/:id", tt.Delete)

	admin.POST("/tables", t.Create)
	admin.PATCH("/tables/:id", t.Update)

	admin.PATCH("/clients/:id/status", cl.SetStatus)

	admin.POST("/pricing-rules", pr.Create)
	admin.PUT("/pricing-rules/:id", pr.Update)
	admin.DELETE("/pricing-rules/:id", pr.Delete)
}
