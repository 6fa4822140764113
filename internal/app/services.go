package app

import (
	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
	"github.com/yungbote/lesson-admin/internal/services"
)

type Services struct {
	Lesson  services.LessonService
	Video   services.VideoService
	Quiz    services.QuizService
	File    services.FileService
	Support services.SupportService
}

func wireServices(log *logger.Logger, cache *querycache.Cache, client *api.Client) Services {
	log.Info("Wiring services...")
	return Services{
		Lesson:  services.NewLessonService(log, cache, client, client.Lessons()),
		Video:   services.NewVideoService(log, cache, client.Videos(), client.VideoQuizzes()),
		Quiz:    services.NewQuizService(log, cache, client.Quizzes(), client.Questions(), client.Options()),
		File:    services.NewFileService(log, cache, client.Assignments(), client.Materials()),
		Support: services.NewSupportService(log, cache, client.SupportBlocks(), client.SupportAgents(), client),
	}
}
