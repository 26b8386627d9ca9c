package api

import (
	"fmt"
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/todoapp/todo-api/docs" // registers the OpenAPI document

	"github.com/todoapp/todo-api/internal/api/handler"
	"github.com/todoapp/todo-api/internal/api/middleware"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const defaultUploadLimit = "10M"

// Deps carries everything the router needs. Services are built by the caller.
type Deps struct {
	Auth        ports.AuthService
	Identity    ports.IdentityResolver
	Users       ports.UserService
	Admin       ports.AdminService
	Tasks       ports.TaskService
	SubTasks    ports.SubTaskService
	Categories  ports.CategoryService
	Attachments ports.AttachmentService

	// RateLimiter throttles register and login. Nil disables throttling.
	RateLimiter *middleware.RateLimiter
	// IPExtractor decides the client address. Defaults to the socket peer so
	// forwarding headers cannot be spoofed; see ClientIPExtractor.
	IPExtractor echo.IPExtractor
	// Logout mounts /api/auth/logout. Only meaningful with token revocation.
	Logout bool
	// Health lists the dependencies pinged by the readiness probe.
	Health map[string]handler.Pinger
	// UploadLimit caps multipart bodies, e.g. "10M".
	UploadLimit string

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = d.IPExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.UploadLimit == "" {
		d.UploadLimit = defaultUploadLimit
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "todo",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health probes, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Authenticate(d.Identity)
	asUser := middleware.RequireRole(domain.RoleUser)
	asAdmin := middleware.RequireRole(domain.RoleAdmin)
	uploads := echomiddleware.BodyLimit(d.UploadLimit)

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	var throttle []echo.MiddlewareFunc
	if d.RateLimiter != nil {
		throttle = append(throttle, d.RateLimiter.Middleware())
	}
	auth.POST("/register", authHandler.Register, throttle...)
	auth.POST("/login", authHandler.Login, throttle...)
	if d.Logout {
		auth.POST("/logout", authHandler.Logout, authn)
	}

	// --- Users ---
	userHandler := handler.NewUserHandler(d.Users)
	users := api.Group("/users", authn)
	users.GET("", userHandler.List)
	users.GET("/profile", userHandler.Profile, asUser)

	// --- Tasks ---
	taskHandler := handler.NewTaskHandler(d.Tasks)
	tasks := api.Group("/tasks", authn)
	tasks.GET("/filter", taskHandler.Filter)
	tasks.POST("", taskHandler.Create, asUser)
	tasks.GET("", taskHandler.List, asUser)
	tasks.GET("/:id", taskHandler.Get, asUser)
	tasks.PUT("/:id", taskHandler.Update, asUser)
	tasks.DELETE("/:id", taskHandler.Delete, asUser)

	// --- Sub-tasks ---
	subHandler := handler.NewSubTaskHandler(d.SubTasks)
	subs := api.Group("/subtask", authn, asUser)
	subs.POST("", subHandler.Create)
	subs.GET("/:id", subHandler.Get)
	subs.PUT("/:id", subHandler.Update)
	subs.DELETE("/:id", subHandler.Delete)

	// --- Categories ---
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	categories := api.Group("/categories", authn)
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.POST("", categoryHandler.Create, asAdmin, uploads)
	categories.PUT("/:id", categoryHandler.Update, asAdmin)
	categories.DELETE("/:id", categoryHandler.Delete, asAdmin)

	// --- Attachments ---
	attachmentHandler := handler.NewAttachmentHandler(d.Attachments)
	attachments := api.Group("/attachments", authn, asUser)
	attachments.POST("", attachmentHandler.Create, uploads)
	attachments.GET("/:id", attachmentHandler.Get)
	attachments.DELETE("/:id", attachmentHandler.Delete)

	// --- Admin panel ---
	adminHandler := handler.NewAdminHandler(d.Admin)
	admin := api.Group("/admin", authn, asAdmin)
	admin.GET("/users", adminHandler.Users)
	admin.GET("/users/details", adminHandler.UserDetails)
	admin.GET("/users/:id/events", adminHandler.AuthEvents)
	admin.GET("/filter_by_task", adminHandler.TaskStats)
	admin.PUT("/:id", adminHandler.EditRole)

	return e
}

// ClientIPExtractor reads the client address from X-Forwarded-For only when
// the request arrives from one of the trusted CIDRs. With none it returns
// the direct extractor.
func ClientIPExtractor(trusted []string) (echo.IPExtractor, error) {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
