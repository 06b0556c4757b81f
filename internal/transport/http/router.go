package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/waste3d/coursemarket-api/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Course     *CourseHandler
	Enrollment *EnrollmentHandler
	Progress   *ProgressHandler
	Admin      *AdminHandler
}

func NewRouter(h Handlers, tokens middleware.TokenValidator, limiter *middleware.RateLimiter, allowedOrigins []string, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	config := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		config.AllowOrigins = allowedOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is working")
	})

	api := r.Group("/api/v1")
	{
		api.GET("/course/all", h.Course.List)
		api.GET("/course/:id", h.Course.GetOne)

		auth := api.Group("")
		auth.Use(middleware.AuthMiddleware(tokens))
		{
			auth.GET("/mycourse", h.Course.MyCourses)
			auth.GET("/lectures/:id", h.Course.Lectures)
			auth.GET("/lecture/:id", h.Course.Lecture)

			auth.POST("/course/checkout/:id", limiter.Limit("checkout", 10, time.Minute), h.Enrollment.Checkout)
			auth.POST("/verification/:id", limiter.Limit("verify", 10, time.Minute), h.Enrollment.VerifyPayment)

			auth.POST("/user/progress", h.Progress.AddProgress)
			auth.GET("/user/progress", h.Progress.GetProgress)

			auth.POST("/admin/reconcile", h.Admin.Reconcile)
		}
	}

	return r
}
