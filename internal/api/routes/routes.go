package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoojob/internal/api/handlers"
	"github.com/yoockh/yoojob/internal/api/middleware"
)

type Deps struct {
	Auth        *handlers.AuthHandler
	Job         *handlers.JobHandler
	Application *handlers.ApplicationHandler
	Tokens      middleware.TokenParser
}

// NewRouter builds the engine with recovery, request logging and CORS, then
// registers every route. An empty allowedOrigins allows any origin.
func NewRouter(log logrus.FieldLogger, allowedOrigins []string, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-Id"}
	corsCfg.ExposeHeaders = []string{"X-Request-Id"}
	r.Use(cors.New(corsCfg))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", d.Auth.Signup)
	authGroup.POST("/login", d.Auth.Login)

	company := middleware.RequireCompany()
	applicant := middleware.RequireApplicant()

	jobs := r.Group("/jobs", middleware.JWTAuth(d.Tokens))
	jobs.POST("", company, d.Job.Create)
	jobs.GET("", applicant, d.Job.Browse)
	jobs.GET("/my", company, d.Job.MyJobs)
	jobs.GET("/:id", d.Job.Get)
	jobs.PUT("/:id", company, d.Job.Update)
	jobs.DELETE("/:id", company, d.Job.Delete)

	apps := r.Group("/applications", middleware.JWTAuth(d.Tokens))
	apps.POST("/apply", applicant, d.Application.Apply)
	apps.GET("/my", applicant, d.Application.MyApplications)
	apps.GET("/job/:id", company, d.Application.ForJob)
	apps.PUT("/status/:id", company, d.Application.UpdateStatus)
	apps.GET("/:id/timeline", d.Application.Timeline)
}
