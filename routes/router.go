package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yatube/yatube/config"
	"github.com/yatube/yatube/controllers"
	"github.com/yatube/yatube/middleware"
	"github.com/yatube/yatube/repositories"
	"github.com/yatube/yatube/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, cache *utils.TimelineCache) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// The access log goes to its own rolling file; the application logger is
	// only a fallback when no path is configured.
	accessLogger := utils.Logger
	if cfg.GinPath != "" {
		accessLogger = utils.NewRollingFileLogger(cfg, cfg.GinPath)
	}
	if accessLogger != nil {
		r.Use(ginzap.Ginzap(accessLogger, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(accessLogger, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Identity is optional everywhere; protected routes add LoginRequired.
	r.Use(middleware.Identify())

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	posts := repositories.NewPostRepository(db)
	groups := repositories.NewGroupRepository(db)
	users := repositories.NewUserRepository(db)
	comments := repositories.NewCommentRepository(db)
	graph := repositories.NewSocialGraph(db)

	feedController := controllers.NewFeedController(posts, groups, users, comments, graph, cache)
	postController := controllers.NewPostController(posts, groups, comments, cache)
	followController := controllers.NewFollowController(users, graph)
	groupController := controllers.NewGroupController(groups)
	authController := controllers.NewAuthController(users)
	statsController := controllers.NewStatsController(db)

	r.GET("/", feedController.Index)
	r.GET("/group/:slug", feedController.GroupPosts)
	r.GET("/groups", groupController.ListGroups)
	r.GET("/profile/:username", feedController.Profile)
	r.GET("/posts/:id", feedController.PostDetail)
	r.GET("/stats", statsController.GetStats)

	auth := r.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.GET("/login", authController.LoginForm)
	auth.POST("/login", authController.Login)
	auth.GET("/me", authController.Me)

	protected := r.Group("")
	protected.Use(middleware.LoginRequired())
	protected.GET("/create", postController.CreatePostForm)
	protected.POST("/create", postController.CreatePost)
	protected.GET("/posts/:id/edit", postController.EditPostForm)
	protected.POST("/posts/:id/edit", postController.EditPost)
	protected.POST("/posts/:id/delete", postController.DeletePost)
	protected.POST("/posts/:id/comment", postController.AddComment)
	protected.GET("/follow", feedController.FollowIndex)
	protected.GET("/profile/:username/follow", followController.ProfileFollow)
	protected.GET("/profile/:username/unfollow", followController.ProfileUnfollow)
	protected.POST("/groups", groupController.CreateGroup)

	return r
}
