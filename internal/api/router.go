package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/config"
	_ "github.com/d60-Lab/newsfeed/docs"
	"github.com/d60-Lab/newsfeed/internal/api/handler"
	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/internal/metrics"
	"github.com/d60-Lab/newsfeed/pkg/jwt"
)

// Deps 路由依赖
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Handler *handler.Handler
	Tokens  *jwt.Manager
	Revoker jwt.Revoker
	Metrics *metrics.Metrics
	Limiter *middleware.IPRateLimiter
}

// SetupRouter 注册中间件与路由
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestID(), middleware.Logger())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter))
	}

	prefix := cfg.Server.APIPrefix
	r.GET("/", handler.Index(prefix))
	r.GET("/health", handler.Health(d.DB))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h := d.Handler
	api := r.Group(prefix)
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
	}

	authed := api.Group("", middleware.Auth(d.Tokens, d.Revoker))
	{
		authed.POST("/logout", h.Logout)

		authed.GET("/users", h.ListUsers)
		authed.POST("/follow/:userid", h.Follow)
		authed.DELETE("/follow/:userid", h.Unfollow)

		authed.POST("/posts", h.CreatePost)
		authed.GET("/feed", h.GetFeed)
	}

	return r
}
