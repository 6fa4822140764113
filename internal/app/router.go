package app

import (
	"github.com/yungbote/lesson-admin/internal/config"
	httpx "github.com/yungbote/lesson-admin/internal/http"
	"github.com/yungbote/lesson-admin/internal/observability"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg *config.Config, h Handlers, metrics *observability.Metrics) *httpx.Server {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpx.NewServer(cfg.HTTP.Addr, cfg.HTTP.ReadHeaderTimeout.Duration, httpx.RouterConfig{
		Log:            log,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		ServiceName:    serviceName,
		Metrics:        metrics,
		LessonHandler:  h.Lesson,
		VideoHandler:   h.Video,
		QuizHandler:    h.Quiz,
		FileHandler:    h.File,
		SupportHandler: h.Support,
		CacheHandler:   h.Cache,
		HealthHandler:  h.Health,
	})
}
