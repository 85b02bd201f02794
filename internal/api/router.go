package api

import (
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookquest/bookquest-api/docs"
	"github.com/bookquest/bookquest-api/internal/api/handler"
	"github.com/bookquest/bookquest-api/internal/api/middleware"
	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

const bodyLimit = "1M"

// Deps is everything the router needs to serve the API.
type Deps struct {
	Auth     ports.AuthService
	Requests ports.RequestService
	Quotes   ports.QuoteService
	Catalog  ports.CatalogService
	Verifier ports.TokenVerifier

	// Limiter guards the credential endpoints. Nil disables rate limiting.
	Limiter middleware.Limiter
	// Checks feed the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check

	CORSOrigins []string
	// TrustedProxies are the CIDRs allowed to set X-Forwarded-For. Empty
	// means the peer address is the client IP.
	TrustedProxies []*net.IPNet
	// Registry receives the HTTP metrics. Nil uses the Prometheus default.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Validator = handler.NewValidator()
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bookquest",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	requestHandler := handler.NewRequestHandler(d.Requests)
	quoteHandler := handler.NewQuoteHandler(d.Quotes)
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	authMiddleware := middleware.Auth(d.Verifier)
	vendorOnly := middleware.RBAC(domain.RoleVendor)

	var credentialGuard []echo.MiddlewareFunc
	if d.Limiter != nil {
		credentialGuard = append(credentialGuard, middleware.RateLimit(d.Limiter, d.Logger))
	}

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, credentialGuard...)
	auth.POST("/login", authHandler.Login, credentialGuard...)
	auth.GET("/profile", authHandler.Profile, authMiddleware)
	auth.POST("/logout", authHandler.Logout, authMiddleware)

	// --- Request ledger ---
	requests := e.Group("/requests", authMiddleware)
	requests.GET("", requestHandler.ListOpen)
	requests.GET("/my-requests", requestHandler.ListMine)
	requests.GET("/:id", requestHandler.Get)
	requests.POST("", requestHandler.Create)
	requests.PUT("/:id/cancel", requestHandler.Cancel)
	requests.PUT("/:id/fulfill", requestHandler.Fulfill)
	requests.POST("/:id/quotes", quoteHandler.Submit, vendorOnly)

	// --- Quote ledger ---
	quotes := e.Group("/quotes", authMiddleware)
	quotes.GET("/my-quotes", quoteHandler.ListMine, vendorOnly)
	quotes.GET("/users/my-quotes", quoteHandler.ListReceived)
	quotes.PUT("/:id/accept", quoteHandler.Accept)
	quotes.PUT("/:id/reject", quoteHandler.Reject)

	// --- Catalog proxy (public) ---
	isbn := e.Group("/isbn")
	isbn.GET("/book/:isbn", catalogHandler.Book)
	isbn.GET("/books/:query", catalogHandler.Search)
	isbn.POST("/books/bulk", catalogHandler.Bulk)
	isbn.GET("/health", catalogHandler.Health)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks, d.Logger)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// ipExtractor only honours X-Forwarded-For when the peer is a trusted proxy.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trusted {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
