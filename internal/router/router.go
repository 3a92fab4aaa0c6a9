package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"HugHub/internal/handler"
	"HugHub/internal/metrics"
	"HugHub/internal/middleware"
	"HugHub/internal/pkg"
	"HugHub/internal/repository/redis"
	"HugHub/internal/service"
)

// Deps 路由需要的全部服务，由 main 组装
type Deps struct {
	Users    *service.UserService
	Profiles *service.ProfileService
	Posts    *service.PostService
	Comments *service.CommentService
	Follows  *service.FollowService

	Tokens   *pkg.TokenMaker
	Sessions *redis.TokenRepository
	Metrics  *metrics.Metrics
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(d.Metrics.Middleware())

	user := handler.NewUserHandler(d.Users)
	email := handler.NewEmailHandler(d.Users)
	profile := handler.NewProfileHandler(d.Profiles)
	post := handler.NewPostHandler(d.Posts)
	comment := handler.NewCommentHandler(d.Comments)
	follow := handler.NewFollowHandler(d.Follows)
	auth := middleware.AuthMiddleware(d.Tokens, d.Sessions)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// 注册、激活、登录、找回密码
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", user.Signup)
		authGroup.GET("/verify/:token", email.Verify)
		authGroup.POST("/resend-verification", email.ResendVerification)
		authGroup.POST("/forgot-password", email.ForgotPassword)
		authGroup.GET("/reset/validate/:token", email.ValidateResetToken)
		authGroup.POST("/reset-password", email.ResetPassword)
		authGroup.POST("/login", user.Login)
		authGroup.POST("/logout", auth, user.Logout)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态账户接口
	userGroup := r.Group("/api/user")
	userGroup.Use(auth)
	{
		userGroup.POST("/change-password", user.ChangePassword)
		userGroup.DELETE("/:id", user.DeleteAccount)
	}

	profileGroup := r.Group("/api/profile")
	{
		profileGroup.GET("/:userId", profile.Get)
		profileGroup.PUT("/:userId", auth, profile.Update)
	}

	// 用户目录
	usersGroup := r.Group("/api/users")
	{
		usersGroup.GET("", user.ListUsers)
		usersGroup.GET("/:id", user.GetUser)
	}

	// 用户关注相关接口
	followGroup := r.Group("/api/follows")
	{
		followGroup.GET("/following/:userId", follow.ListFollowing)
		followGroup.GET("/followers/:userId", follow.ListFollowers)
		followGroup.GET("/relation", follow.Relation)
		followGroup.POST("", auth, follow.Follow)
		followGroup.DELETE("", auth, follow.Unfollow)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/posts")
	{
		postGroup.GET("", post.List)
		postGroup.GET("/:id/comments", comment.ListByPost)
		postGroup.POST("", auth, post.Create)
		postGroup.PUT("/:id", auth, post.Update)
		postGroup.DELETE("/:id", auth, post.Delete)
	}

	commentGroup := r.Group("/api/comments")
	commentGroup.Use(auth)
	{
		commentGroup.POST("", comment.Create)
		commentGroup.PUT("/:id", comment.Update)
		commentGroup.DELETE("/:id", comment.Delete)
	}

	return r
}
