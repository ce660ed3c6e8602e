package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/shaikhasif69/GPM/config"
	"github.com/shaikhasif69/GPM/internal/api/handler"
	"github.com/shaikhasif69/GPM/internal/api/middleware"
	"github.com/shaikhasif69/GPM/pkg/jwt"
	"github.com/shaikhasif69/GPM/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb、client 均可为 nil：前者关闭黑名单与限流，后者使健康检查跳过数据库探测
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	client *mongo.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 每个引擎独立的指标注册表
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	// Redis 不可用时保持接口为 nil
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
		cache     pinger
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
		cache = rdb
	}

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查与指标 ──
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Student Portal API is running")
	})
	r.GET("/health", healthHandler(client, cache))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		// 用户模块
		users := api.Group("/users")
		{
			users.POST("/login", middleware.RateLimit(limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), h.Auth.Login)

			authorized := users.Group("")
			authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
			{
				authorized.POST("/logout", h.Auth.Logout)
				authorized.GET("/me", h.Auth.Me)
			}

			users.GET("", h.User.ListUsers)
			users.POST("", h.User.CreateUser)
			users.GET("/:id", h.User.GetUser)
			users.PUT("/:id", h.User.UpdateUser)
			users.DELETE("/:id", h.User.DeleteUser)
		}

		// 收藏日模块
		favoriteDays := api.Group("/favoritedays")
		{
			favoriteDays.POST("", h.FavoriteDay.AddFavoriteDay)
			favoriteDays.GET("/user/:userId", h.FavoriteDay.ListUserFavoriteDays)
			favoriteDays.GET("/user/:userId/export", h.Export.ExportFavoriteDays)
			favoriteDays.DELETE("/:id", h.FavoriteDay.RemoveFavoriteDay)
		}

		// 项目模块（功能开关控制，默认不挂载）
		if cfg.Feature.ProjectsEnabled {
			projects := api.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.POST("", h.Project.CreateProject)
				projects.GET("/:id", h.Project.GetProject)
				projects.PUT("/:id", h.Project.UpdateProject)
				projects.DELETE("/:id", h.Project.DeleteProject)
			}
		}
	}

	return r
}

// pinger Redis 健康检查
type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler MongoDB 不可用返回 503；Redis 为可选依赖，只在响应中报告状态
func healthHandler(client *mongo.Client, cache pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		redisStatus := "disabled"
		if cache != nil {
			redisStatus = "ok"
			if err := cache.Ping(ctx); err != nil {
				_ = c.Error(err)
				redisStatus = "unavailable"
			}
		}

		if client != nil {
			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "redis": redisStatus})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": redisStatus})
	}
}
