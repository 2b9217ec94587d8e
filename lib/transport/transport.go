package transport

import (
	"fmt"
	"log"
	"time"

	cache "github.com/SporkHubr/echo-http-cache"
	"github.com/SporkHubr/echo-http-cache/adapter/memory"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/tenderdesk/ledgerhub/controllers"
	"github.com/tenderdesk/ledgerhub/lib"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
	"github.com/ziflex/lecho/v3"
	"golang.org/x/time/rate"
)

func InitEcho(c *service.Config, logger *lecho.Logger) (e *echo.Echo) {

	// New Echo app
	e = echo.New()
	e.HideBanner = true

	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("250K"))
	// set the default rate limit defining the overall max requests/second
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(c.DefaultRateLimit))))

	e.Logger = logger
	e.Use(middleware.RequestID())
	e.Use(lecho.Middleware(lecho.Config{
		Logger: logger,
		Enricher: func(c echo.Context, logger zerolog.Context) zerolog.Context {
			return logger.Str("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
		},
	}))

	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{}))
	}
	return e
}

func createStrictRateLimitMiddleware(requestsPerSecond int, burst int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(requestsPerSecond), Burst: burst},
		),
	}

	return middleware.RateLimiterWithConfig(config)
}

func createCacheClient() *cache.Client {
	memcached, err := memory.NewAdapter(
		memory.AdapterWithAlgorithm(memory.LRU),
		memory.AdapterWithCapacity(10000),
	)

	if err != nil {
		log.Fatalf("Error creating cache client memory adapter: %v", err)
	}

	cacheClient, err := cache.NewClient(
		cache.ClientWithAdapter(memcached),
		cache.ClientWithTTL(10*time.Minute),
		cache.ClientWithRefreshKey("opn"),
	)

	if err != nil {
		log.Fatalf("Error creating cache client: %v", err)
	}
	return cacheClient
}

// RegisterEndpoints wires the controllers into the echo app. Mutating
// endpoints sit behind the strict rate limit, the category listing is
// served through the memory cache.
func RegisterEndpoints(svc *service.LedgerService, e *echo.Echo) {
	strictRateLimitMiddleware := createStrictRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit)
	cachedListMiddleware := createCacheClient().Middleware()

	healthCtrl := controllers.NewHealthController(svc)
	e.GET("/healthz", healthCtrl.Check)

	accountCtrl := controllers.NewAccountController(svc)
	e.POST("/v2/accounts", accountCtrl.CreateAccount, strictRateLimitMiddleware)
	e.GET("/v2/accounts", accountCtrl.ListAccounts)
	e.GET("/v2/accounts/:account_id", accountCtrl.GetAccount)

	categoryCtrl := controllers.NewCategoryController(svc)
	e.POST("/v2/categories", categoryCtrl.CreateCategory, strictRateLimitMiddleware)
	e.GET("/v2/categories", categoryCtrl.ListCategories, cachedListMiddleware)

	entryCtrl := controllers.NewEntryController(svc)
	e.POST("/v2/entries", entryCtrl.AddEntry, strictRateLimitMiddleware)
	e.PUT("/v2/entries/:entry_id", entryCtrl.UpdateEntry, strictRateLimitMiddleware)
	e.DELETE("/v2/entries/:entry_id", entryCtrl.DeleteEntry, strictRateLimitMiddleware)
	e.GET("/v2/entries/:entry_id", entryCtrl.GetEntry)
	e.GET("/v2/accounts/:account_id/entries", entryCtrl.GetEntries)

	transferCtrl := controllers.NewTransferController(svc)
	e.POST("/v2/transfers", transferCtrl.CreateTransfer, strictRateLimitMiddleware)
	e.GET("/v2/transfers/:transfer_id", transferCtrl.GetTransfer)
	e.DELETE("/v2/transfers/:transfer_id", transferCtrl.DeleteTransfer, strictRateLimitMiddleware)

	loanCtrl := controllers.NewLoanController(svc)
	e.POST("/v2/loans", loanCtrl.CreateLoan, strictRateLimitMiddleware)
	e.GET("/v2/loans/:loan_id", loanCtrl.GetLoan)
	e.POST("/v2/loans/:loan_id/payments", loanCtrl.RecordPayment, strictRateLimitMiddleware)

	planCtrl := controllers.NewPlanController(svc)
	e.POST("/v2/plans", planCtrl.CreatePlan, strictRateLimitMiddleware)
	e.POST("/v2/plans/:plan_id/topups", planCtrl.RecordTopUp, strictRateLimitMiddleware)
}

func StartPrometheusEcho(logger *lecho.Logger, svc *service.LedgerService, e *echo.Echo) error {
	// Create Prometheus server and Middleware
	echoPrometheus := echo.New()
	echoPrometheus.HideBanner = true
	echoPrometheus.Logger = logger
	prom := prometheus.NewPrometheus("ledgerhub", nil)
	// Scrape metrics from Main Server
	e.Use(prom.HandlerFunc)
	// Setup metrics endpoint at another server
	prom.SetMetricsPath(echoPrometheus)
	return echoPrometheus.Start(fmt.Sprintf(":%d", svc.Config.PrometheusPort))
}
