package content

import "github.com/yungbote/lesson-admin/internal/domain/ident"

type QuestionType string

const (
	QuestionSingle    QuestionType = "single"
	QuestionMultiple  QuestionType = "multiple"
	QuestionTrueFalse QuestionType = "true_false"
)

// SingleAnswer reports whether exactly one option of the question may be correct.
func (t QuestionType) SingleAnswer() bool {
	return t == QuestionSingle || t == QuestionTrueFalse
}

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingle, QuestionMultiple, QuestionTrueFalse:
		return true
	}
	return false
}

type LessonQuiz struct {
	ID               ident.ID `json:"id"`
	LessonID         ident.ID `json:"lessonId"`
	Title            string   `json:"title"`
	TimeLimit        int      `json:"timeLimit"`
	PassingScore     int      `json:"passingScore"`
	MaxAttempts      int      `json:"maxAttempts"`
	ShuffleQuestions bool     `json:"shuffleQuestions"`
	ShowAnswers      bool     `json:"showAnswers"`
	IsActive         bool     `json:"isActive"`
}

type LessonQuizQuestion struct {
	ID       ident.ID     `json:"id"`
	QuizID   ident.ID     `json:"quizId"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Points   int          `json:"points"`
	Order    int          `json:"order"`
}

type LessonQuizOption struct {
	ID         ident.ID `json:"id"`
	QuestionID ident.ID `json:"questionId"`
	OptionText string   `json:"optionText"`
	IsCorrect  bool     `json:"isCorrect"`
	Order      int      `json:"order"`
}
