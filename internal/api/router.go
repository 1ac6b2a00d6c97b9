package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/hastakala/hastakala-api/internal/api/handler"
	"github.com/hastakala/hastakala-api/internal/api/middleware"
	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
	"github.com/hastakala/hastakala-api/internal/infrastructure/storage"
)

// Dependencies are the services and infrastructure the router mounts.
// Mongo and Redis are only used by the readiness probe and may be nil.
type Dependencies struct {
	Auth          ports.AuthService
	Tokens        ports.TokenVerifier
	Artworks      ports.ArtworkService
	Events        ports.EventService
	Community     ports.CommunityService
	Profiles      ports.ProfileService
	Notifications ports.NotificationService
	Carts         ports.CartService
	Files         ports.ContentStore

	Mongo *mongo.Database
	Redis *redis.Client

	// Metrics receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, where the custom counters live.
	Metrics *prometheus.Registry

	Log         zerolog.Logger
	CORSOrigins []string
	// LoginRate limits /auth/login and /auth/register per client IP. Zero disables it.
	LoginRate  float64
	LoginBurst int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("12M"))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Metrics != nil {
		registerer, gatherer = d.Metrics, d.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "hastakala",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	if d.Files != nil {
		e.GET(storage.PublicPrefix+"*", handler.NewUploadsHandler(d.Files).Serve)
	}

	authn := middleware.Auth(d.Tokens)
	sellers := middleware.RequireRole(domain.RoleArtist)
	hosts := middleware.RequireRole(domain.RoleArtist, domain.RoleAdmin)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	limited := loginLimiter(d.LoginRate, d.LoginBurst)
	e.POST("/auth/register", authHandler.Register, limited...)
	e.POST("/auth/login", authHandler.Login, limited...)
	e.POST("/auth/logout", authHandler.Logout, authn)

	// --- Artworks ---
	artworks := handler.NewArtworkHandler(d.Artworks)
	e.GET("/artworks", artworks.List)
	e.GET("/artworks/:id", artworks.Get)
	e.POST("/artworks", artworks.Create, authn, sellers)
	e.PUT("/artworks/:id", artworks.Update, authn)
	e.DELETE("/artworks/:id", artworks.Delete, authn)

	// --- Events ---
	events := handler.NewEventHandler(d.Events)
	e.GET("/events", events.List)
	e.GET("/events/:id", events.Get)
	e.POST("/events", events.Create, authn, hosts)
	e.PUT("/events/:id", events.Update, authn)
	e.DELETE("/events/:id", events.Delete, authn)

	// --- Community ---
	community := handler.NewCommunityHandler(d.Community)
	e.GET("/posts", community.ListPosts)
	e.GET("/posts/:id", community.GetPost)
	e.GET("/posts/:id/comments", community.ListComments)
	e.POST("/posts", community.CreatePost, authn)
	e.PUT("/posts/:id", community.UpdatePost, authn)
	e.DELETE("/posts/:id", community.DeletePost, authn)
	e.POST("/posts/:id/like", community.ToggleLike, authn)
	e.POST("/posts/:id/comments", community.AddComment, authn)
	e.PUT("/comments/:id", community.UpdateComment, authn)
	e.DELETE("/comments/:id", community.DeleteComment, authn)

	// --- Users ---
	profiles := handler.NewProfileHandler(d.Profiles)
	me := e.Group("/users/me", authn)
	me.GET("", profiles.Me)
	me.PUT("", profiles.Update)
	me.POST("/image", profiles.UploadImage)
	me.DELETE("/image", profiles.DeleteImage)
	e.GET("/users/:id", profiles.Public)

	// --- Notifications ---
	inbox := handler.NewNotificationHandler(d.Notifications)
	n := e.Group("/notifications", authn)
	n.GET("", inbox.List)
	n.GET("/unread-count", inbox.UnreadCount)
	n.PATCH("/read-all", inbox.MarkAllRead)
	n.PATCH("/:id/read", inbox.MarkRead)
	n.DELETE("/:id", inbox.Delete)

	// --- Cart ---
	carts := handler.NewCartHandler(d.Carts)
	cart := e.Group("/cart", authn)
	cart.GET("", carts.Get)
	cart.POST("/items", carts.AddItem)
	cart.DELETE("/items/:artworkId", carts.RemoveItem)
	cart.POST("/checkout", carts.Checkout)

	return e
}

func loginLimiter(perSecond float64, burst int) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiter(store)}
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
