package router

import (
	"net/http"

	"shopBackend/internal/middleware"
	"shopBackend/internal/rest"
	"shopBackend/pkg/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupGlobalMiddleware installs the middleware every route shares. Metrics
// wraps the request logger so the logger still sees handler errors.
func SetupGlobalMiddleware(e *echo.Echo, allowOrigins []string) {
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID, "error", v.Error)
				return nil
			}
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID)
			return nil
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/user")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/profile", handler.Profile, authRequired)
	users.PUT("/editprofile", handler.EditProfile, authRequired)
	users.GET("/creditcards", handler.ListCreditCards, authRequired)
	users.POST("/creditcards", handler.AddCreditCard, authRequired)
}

func SetupAddressRoutes(api *echo.Group, handler *rest.AddressHandler, authRequired echo.MiddlewareFunc) {
	addresses := api.Group("/address", authRequired)

	addresses.GET("", handler.ListAddresses)
	addresses.POST("/register", handler.RegisterAddress)
	addresses.PUT("/:id", handler.UpdateAddress)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.GET("/tag/:tag", handler.GetProductsByTag)
	products.POST("", handler.CreateProduct, authRequired, middleware.AdminOnly())
}

func SetupMetricsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
