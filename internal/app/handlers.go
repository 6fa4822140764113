package app

import (
	"github.com/yungbote/lesson-admin/internal/clients/redis"
	"github.com/yungbote/lesson-admin/internal/config"
	"github.com/yungbote/lesson-admin/internal/editor"
	"github.com/yungbote/lesson-admin/internal/forms"
	httpH "github.com/yungbote/lesson-admin/internal/http/handlers"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type Handlers struct {
	Lesson  *httpH.LessonHandler
	Video   *httpH.VideoHandler
	Quiz    *httpH.QuizHandler
	File    *httpH.FileHandler
	Support *httpH.SupportHandler
	Cache   *httpH.CacheHandler
	Health  *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, svc Services, cache *querycache.Cache, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	v := forms.NewValidator()

	deps := map[string]httpH.Pinger{}
	if clients.Redis != nil {
		deps["redis"] = redis.Health{RDB: clients.Redis}
	}

	return Handlers{
		Lesson: httpH.NewLessonHandler(log, svc.Lesson, v),
		Video:  httpH.NewVideoHandler(svc.Video, v),
		Quiz: httpH.NewQuizHandler(log, svc.Quiz, v, editor.QuizEditorOptions{
			AtomicCorrectToggle: cfg.Quiz.AtomicCorrectToggle,
		}),
		File:    httpH.NewFileHandler(svc.File, v),
		Support: httpH.NewSupportHandler(log, svc.Support, v),
		Cache:   httpH.NewCacheHandler(cache),
		Health:  httpH.NewHealthHandler(deps),
	}
}
