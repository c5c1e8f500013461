package api

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	JWTSecret string
	RateLimit float64
	RateBurst int
}

// NewRouter wires the checkout and catalog routes onto a new echo instance.
// Price updates and receipt voids require a bearer token when a JWT secret
// is configured.
func NewRouter(checkout *CheckoutHandler, catalogs *CatalogHandler, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig(cfg)))
	}

	var auth []echo.MiddlewareFunc
	if cfg.JWTSecret != "" {
		auth = append(auth, echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(jwt.RegisteredClaims)
			},
		}))
	}

	e.POST("/checkout", checkout.Checkout)
	e.GET("/receipts/:id", checkout.GetReceipt)
	e.DELETE("/receipts/:id", checkout.VoidReceipt, auth...)
	e.GET("/catalogs/:name", catalogs.GetCatalog)
	e.PUT("/catalogs/:name/prices", catalogs.UpsertPrice, auth...)

	e.GET("/checkout/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "discount-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	return e
}

func rateLimiterConfig(cfg RouterConfig) middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
	}
}
