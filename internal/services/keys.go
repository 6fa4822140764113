package services

import (
	"context"
	"time"

	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

// Query keys, one factory per cached entity.
var (
	LevelKeys         = querycache.Keys("levels")
	LessonKeys        = querycache.Keys("lessons")
	VideoKeys         = querycache.Keys("lessonVideos")
	VideoQuizKeys     = querycache.Keys("videoQuizzes")
	QuizKeys          = querycache.Keys("lessonQuizzes")
	QuestionKeys      = querycache.Keys("quizQuestions")
	OptionKeys        = querycache.Keys("quizOptions")
	AssignmentKeys    = querycache.Keys("lessonAssignments")
	MaterialKeys      = querycache.Keys("lessonMaterials")
	SupportBlockKeys  = querycache.Keys("supportBlocks")
	SupportAgentKeys  = querycache.Keys("supportAgents")
	TeamStructureKeys = querycache.Keys("teamStructure")
)

const (
	levelsStaleTime        = 30 * time.Minute
	teamStructureStaleTime = 30 * time.Second
)

// invalidator applies a mutation's invalidation targets. A failed
// invalidation is logged and does not fail the mutation that already succeeded.
type invalidator struct {
	cache *querycache.Cache
	log   *logger.Logger
}

func (iv invalidator) invalidate(ctx context.Context, keys ...querycache.Key) {
	for _, k := range keys {
		if err := iv.cache.Invalidate(ctx, k); err != nil {
			iv.log.Warn("invalidate failed", "key", k.String(), "error", err)
		}
	}
}

func (iv invalidator) remove(ctx context.Context, keys ...querycache.Key) {
	for _, k := range keys {
		if err := iv.cache.Remove(ctx, k); err != nil {
			iv.log.Warn("remove failed", "key", k.String(), "error", err)
		}
	}
}

func (iv invalidator) prime(ctx context.Context, key querycache.Key, v any) {
	if err := iv.cache.SetData(ctx, key, v); err != nil {
		iv.log.Warn("prime failed", "key", key.String(), "error", err)
	}
}
