package router

import (
	"fmt"
	"net/http"

	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/bookstore/backend/internal/interfaces/http/handler"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by NewEngine
type Handlers struct {
	Authors   *handler.AuthorHandler
	Books     *handler.BookHandler
	Customers *handler.CustomerHandler
	Invoices  *handler.InvoiceHandler
	Lines     *handler.LineHandler
	Reports   *handler.ReportHandler
	Health    *handler.HealthHandler
}

// EngineConfig configures the middleware stack of the engine
type EngineConfig struct {
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	Tracing        middleware.TracingConfig
	Metrics        *telemetry.Metrics // nil disables request metrics and the scrape endpoint
	MetricsPath    string
	BodyLimit      int64
	TrustedProxies []string
}

// NewEngine builds the gin engine with the middleware stack, the versioned API routes,
// the health endpoint and, when metrics are configured, the Prometheus scrape endpoint.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = middleware.DefaultBodyLimit
	}

	engine.Use(logger.Recovery(cfg.Logger), middleware.RequestID(), middleware.CORS(cfg.CORS))
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(logger.GinMiddleware(cfg.Logger))
	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics))
	}
	engine.Use(middleware.BodyLimit(bodyLimit))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.ErrCodeRouteNotFound,
			"No route for "+c.Request.Method+" "+c.Request.URL.Path,
			middleware.GetRequestID(c),
		))
	})

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	NewRouter(engine, WithAPIVersion("v1")).
		Register(APIRoutes(h)...).
		Setup()
	return engine, nil
}

// APIRoutes returns the resource groups of the bookstore API
func APIRoutes(h Handlers) []RouteRegistrar {
	authors := NewDomainGroup("authors", "/authors").
		POST("", h.Authors.Create).
		GET("", h.Authors.List).
		GET("/:id", h.Authors.GetByID).
		PUT("/:id", h.Authors.Update).
		DELETE("/:id", h.Authors.Delete)

	books := NewDomainGroup("books", "/books").
		POST("", h.Books.Create).
		GET("", h.Books.List).
		GET("/:id", h.Books.GetByID).
		PUT("/:id", h.Books.Update).
		DELETE("/:id", h.Books.Delete)

	customers := NewDomainGroup("customers", "/customers").
		POST("", h.Customers.Create).
		GET("", h.Customers.List).
		GET("/:id", h.Customers.GetByID).
		PUT("/:id", h.Customers.Update).
		DELETE("/:id", h.Customers.Delete)

	invoices := NewDomainGroup("invoices", "/invoices").
		POST("", h.Invoices.Create).
		GET("", h.Invoices.List).
		GET("/:id", h.Invoices.GetByID).
		DELETE("/:id", h.Invoices.Delete)

	lines := NewDomainGroup("invoice-lines", "/invoice-lines").
		GET("", h.Lines.List).
		GET("/:id", h.Lines.GetByID).
		PATCH("/:id", h.Lines.UpdateQuantity).
		DELETE("/:id", h.Lines.Delete)

	reports := NewDomainGroup("reports", "/reports").
		GET("/authors", h.Reports.AuthorBookCounts).
		GET("/customers", h.Reports.CustomerInvoiceTotals).
		GET("/daily-revenue", h.Reports.DailyRevenue).
		GET("/invoices", h.Reports.InvoiceSummaries).
		GET("/lines", h.Reports.InvoiceLineSummaries)

	return []RouteRegistrar{authors, books, customers, invoices, lines, reports}
}
