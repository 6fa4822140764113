package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lesson-admin/internal/http/handlers"
	httpMW "github.com/yungbote/lesson-admin/internal/http/middleware"
	"github.com/yungbote/lesson-admin/internal/observability"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string
	ServiceName    string
	Metrics        *observability.Metrics

	LessonHandler  *httpH.LessonHandler
	VideoHandler   *httpH.VideoHandler
	QuizHandler    *httpH.QuizHandler
	FileHandler    *httpH.FileHandler
	SupportHandler *httpH.SupportHandler
	CacheHandler   *httpH.CacheHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.AttachRequestContext())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Lessons
		if h := cfg.LessonHandler; h != nil {
			api.GET("/levels", h.ListLevels)
			api.GET("/lessons", h.ListLessons)
			api.POST("/lessons", h.CreateLesson)
			api.GET("/lessons/:id", h.GetLesson)
			api.PUT("/lessons/:id", h.UpdateLesson)
			api.DELETE("/lessons/:id", h.DeleteLesson)
		}

		// Videos
		if h := cfg.VideoHandler; h != nil {
			api.GET("/lessons/:id/videos", h.ListLessonVideos)
			api.POST("/lessons/:id/videos", h.CreateVideo)
			api.GET("/videos/:id", h.GetVideo)
			api.PATCH("/videos/:id", h.UpdateVideo)
			api.DELETE("/videos/:id", h.DeleteVideo)
			api.GET("/videos/:id/quizzes", h.ListVideoQuizzes)
			api.POST("/videos/:id/quizzes", h.CreateVideoQuiz)
			api.PATCH("/videos/:id/quizzes/:quizId", h.UpdateVideoQuiz)
			api.DELETE("/videos/:id/quizzes/:quizId", h.DeleteVideoQuiz)
		}

		// Quizzes, questions, options
		if h := cfg.QuizHandler; h != nil {
			api.GET("/lessons/:id/quizzes", h.ListLessonQuizzes)
			api.POST("/lessons/:id/quizzes", h.CreateQuiz)
			api.GET("/quizzes/:id", h.GetQuiz)
			api.PATCH("/quizzes/:id", h.SaveSettings)
			api.DELETE("/quizzes/:id", h.DeleteQuiz)
			api.GET("/quizzes/:id/questions", h.ListQuestions)
			api.POST("/quizzes/:id/questions", h.AddQuestion)
			api.POST("/quizzes/:id/questions/order", h.MoveQuestion)
			api.PATCH("/questions/:id", h.UpdateQuestion)
			api.DELETE("/questions/:id", h.DeleteQuestion)
			api.GET("/questions/:id/options", h.ListOptions)
			api.POST("/questions/:id/options", h.AddOption)
			api.PATCH("/options/:id", h.UpdateOption)
			api.DELETE("/options/:id", h.DeleteOption)
			api.POST("/options/:id/correct", h.SetCorrect)
		}

		// Assignments and materials
		if h := cfg.FileHandler; h != nil {
			api.GET("/lessons/:id/assignments", h.ListAssignments)
			api.POST("/lessons/:id/assignments", h.CreateAssignment)
			api.GET("/assignments/:id", h.GetAssignment)
			api.PATCH("/assignments/:id", h.UpdateAssignment)
			api.DELETE("/assignments/:id", h.DeleteAssignment)
			api.GET("/lessons/:id/materials", h.ListMaterials)
			api.POST("/lessons/:id/materials", h.CreateMaterial)
			api.GET("/materials/:id", h.GetMaterial)
			api.PATCH("/materials/:id", h.UpdateMaterial)
			api.DELETE("/materials/:id", h.DeleteMaterial)
		}

		// Support
		if h := cfg.SupportHandler; h != nil {
			api.GET("/support-blocks", h.ListBlocks)
			api.POST("/support-blocks", h.CreateBlock)
			api.GET("/support-blocks/:id", h.GetBlock)
			api.PUT("/support-blocks/:id", h.UpdateBlock)
			api.DELETE("/support-blocks/:id", h.DeleteBlock)
			api.GET("/support-agents", h.ListAgents)
			api.POST("/support-agents", h.CreateAgent)
			api.PATCH("/support-agents/:id", h.UpdateAgent)
			api.DELETE("/support-agents/:id", h.DeleteAgent)
			api.GET("/team-structure", h.TeamStructure)
		}

		if cfg.CacheHandler != nil {
			api.DELETE("/cache", cfg.CacheHandler.Invalidate)
		}
	}

	return r
}
