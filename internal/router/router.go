package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/storefront/internal/handler"
	"github.com/iliyamo/storefront/internal/middleware"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Users   *handler.UserHandler
	Catalog *handler.CatalogHandler
	Checks  []handler.Check
}

// Use installs the global middleware chain: panic recovery, request ids,
// request logging and bearer token extraction. Rate limiting is installed
// by the caller because it needs Redis.
func Use(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.BearerToken())
	e.Use(middleware.RequestLogger())
}

// RegisterRoutes registers the health check and every /api/v1 route.
// Authorization is decided per operation by the service layer, so no
// route group carries an auth middleware.
func RegisterRoutes(e *echo.Echo, h Handlers, mws ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health(h.Checks...))

	v1 := e.Group("/api/v1", mws...)

	users := v1.Group("/users")
	users.POST("/register", h.Users.Register)
	users.POST("/login", h.Users.Login)
	users.POST("/logout", h.Users.Logout)
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.PATCH("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	products := v1.Group("/products")
	products.GET("", h.Catalog.ListProducts)
	products.POST("", h.Catalog.CreateProduct)
	products.GET("/:id", h.Catalog.GetProduct)
	products.PATCH("/:id", h.Catalog.UpdateProduct)
	products.DELETE("/:id", h.Catalog.DeleteProduct)

	categories := v1.Group("/categories")
	categories.GET("", h.Catalog.ListCategories)
	categories.POST("", h.Catalog.CreateCategory)
	categories.GET("/:id", h.Catalog.GetCategory)
	categories.PATCH("/:id", h.Catalog.UpdateCategory)
	categories.DELETE("/:id", h.Catalog.DeleteCategory)
}
