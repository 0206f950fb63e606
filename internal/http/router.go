// README: HTTP router; route table and middleware chain.
package http

import (
	"github.com/gin-gonic/gin"

	"bazaar/internal/http/handlers"
	"bazaar/internal/http/middleware"
	"bazaar/internal/infra"
)

type Handlers struct {
	Booking *handlers.BookingHandler
	Admin   *handlers.AdminHandler
	Worker  *handlers.WorkerHandler
	Catalog *handlers.CatalogHandler
	User    *handlers.UserHandler
	Media   *handlers.MediaHandler
	Assist  *handlers.AssistHandler
}

// NewRouter builds the gin engine. All application routes sit behind auth;
// admin and worker groups add a role gate on top.
func NewRouter(verifier infra.TokenVerifier, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestID(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", middleware.Auth(verifier))

	api.POST("/me", h.User.Me)
	api.PUT("/me/device-token", h.User.SetDeviceToken)

	api.GET("/catalog/:kind", h.Catalog.List)
	api.GET("/catalog/items/:id", h.Catalog.Get)

	api.POST("/bookings/:vertical", h.Booking.Create)
	api.GET("/bookings/:id", h.Booking.Get)
	api.PUT("/bookings/:id/cancel", h.Booking.Cancel)
	api.GET("/bookings/:id/events", h.Booking.Events)
	api.GET("/orders", h.Booking.History)
	api.GET("/orders/summary", h.Assist.Summary)

	worker := api.Group("/worker", middleware.RequireRole("worker"))
	worker.GET("/tasks", h.Worker.Tasks)
	worker.PUT("/tasks/:id/status", h.Worker.SetStatus)
	worker.PUT("/location", h.Worker.UpdateLocation)
	worker.DELETE("/location", h.Worker.GoOffline)

	admin := api.Group("/admin", middleware.RequireRole("admin"))
	admin.GET("/boards/:vertical", h.Admin.Board)
	admin.PUT("/bookings/:id/assign", h.Admin.Assign)
	admin.PUT("/bookings/:id/status", h.Admin.SetStatus)
	admin.POST("/bookings/:id/dispatch", h.Admin.Dispatch)
	admin.GET("/bookings/:id/candidates", h.Admin.Candidates)
	admin.PUT("/users/:id/role", h.Admin.Promote)
	admin.PUT("/users/:id/active", h.Admin.SetActive)
	admin.POST("/catalog", h.Catalog.Create)
	admin.PUT("/catalog/items/:id", h.Catalog.Update)
	admin.DELETE("/catalog/items/:id", h.Catalog.Delete)
	admin.POST("/media/images", h.Media.Upload)

	return r
}
