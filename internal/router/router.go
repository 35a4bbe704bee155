package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/saviare/saviare-backend/internal/config"
	"github.com/saviare/saviare-backend/internal/handler"
	"github.com/saviare/saviare-backend/internal/middleware"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/response"
	"github.com/saviare/saviare-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	Quiz       *handler.QuizHandler
	Submission *handler.SubmissionHandler
	Grade      *handler.GradeHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background goroutines owned by the router, such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID and a request-scoped logger on every request.
	router.Use(response.RequestIDMiddleware(log))
	router.Use(requestLogger(log))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, time.Minute)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group ──────────────────────────────────────────────
	student := api.Group("/student")
	student.Use(middleware.RequireJWT(authService), middleware.RequireRole(model.RoleStudent))
	{
		student.GET("/courses", handlers.Course.ListEnrolled)
		student.GET("/courses/:course_id/quizzes", handlers.Quiz.ListForStudent)
		student.GET("/quizzes/:quiz_id", handlers.Quiz.GetForStudent)
		student.POST("/quizzes/:quiz_id/submit", handlers.Submission.Submit)
		student.GET("/quizzes/:quiz_id/attempts", handlers.Grade.ListAttempts)
		student.GET("/grades", handlers.Grade.ListMine)
	}

	// ─── 3. Teacher Group ──────────────────────────────────────────────
	teacher := api.Group("/teacher")
	teacher.Use(middleware.RequireJWT(authService), middleware.RequireRole(model.RoleTeacher))
	{
		teacher.POST("/courses", handlers.Course.Create)
		teacher.GET("/courses", handlers.Course.ListOwned)
		teacher.DELETE("/courses/:course_id", handlers.Course.Delete)
		teacher.POST("/courses/:course_id/content", handlers.Course.AddContent)
		teacher.GET("/students", handlers.Course.StudentDirectory)
		teacher.GET("/courses/:course_id/students", handlers.Course.ListStudents)
		teacher.POST("/courses/:course_id/students", handlers.Course.Enroll)
		teacher.DELETE("/courses/:course_id/students/:student_id", handlers.Course.Unenroll)
		teacher.PATCH("/courses/:course_id/active", handlers.Course.SetActive)

		teacher.POST("/courses/:course_id/quizzes", handlers.Quiz.Create)
		teacher.GET("/courses/:course_id/quizzes", handlers.Quiz.ListForTeacher)
		teacher.DELETE("/quizzes/:quiz_id", handlers.Quiz.Delete)

		teacher.GET("/courses/:course_id/grades", handlers.Grade.ListForCourse)
		teacher.PUT("/courses/:course_id/grades/:student_id", handlers.Grade.SetManual)
	}

	// ─── 4. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService, model.RoleStudent))
	{
		ws.GET("/student/quizzes/:quiz_id/stream", handlers.WS.QuizWebSocketStream)
	}

	return router
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= 500 {
			ev = log.Error()
		} else if status >= 400 {
			ev = log.Warn()
		}
		reqID, _ := c.Get(response.ContextKeyRequestID)
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Interface("request_id", reqID).
			Msg("HTTP request")
	}
}
