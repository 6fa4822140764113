package domain

import (
	"github.com/yungbote/lesson-admin/internal/domain/content"
	"github.com/yungbote/lesson-admin/internal/domain/ident"
	"github.com/yungbote/lesson-admin/internal/domain/support"
)

type (
	ID = ident.ID

	Level              = content.Level
	Lesson             = content.Lesson
	LessonQuiz         = content.LessonQuiz
	LessonQuizQuestion = content.LessonQuizQuestion
	LessonQuizOption   = content.LessonQuizOption
	QuestionType       = content.QuestionType
	LessonVideo        = content.LessonVideo
	VideoProvider      = content.VideoProvider
	VideoQuiz          = content.VideoQuiz
	LessonAssignment   = content.LessonAssignment
	LessonMaterial     = content.LessonMaterial
	MaterialType       = content.MaterialType

	SupportBlock  = support.SupportBlock
	SupportAgent  = support.SupportAgent
	AgentStatus   = support.AgentStatus
	TeamStructure = support.TeamStructure
	TeamBlock     = support.TeamBlock
	TeamLead      = support.TeamLead
)

const (
	QuestionSingle    = content.QuestionSingle
	QuestionMultiple  = content.QuestionMultiple
	QuestionTrueFalse = content.QuestionTrueFalse

	MaterialFile = content.MaterialFile
	MaterialLink = content.MaterialLink

	StatusAvailable = support.StatusAvailable
	StatusBusy      = support.StatusBusy
	StatusOffline   = support.StatusOffline
)

func NewTempID() ID { return ident.NewTemp() }
