package content

import "github.com/yungbote/lesson-admin/internal/domain/ident"

type VideoProvider string

const (
	ProviderYouTube VideoProvider = "youtube"
	ProviderVimeo   VideoProvider = "vimeo"
	ProviderBunny   VideoProvider = "bunny"
)

type LessonVideo struct {
	ID               ident.ID      `json:"id"`
	LessonID         ident.ID      `json:"lessonId"`
	Title            string        `json:"title"`
	Duration         int           `json:"duration"`
	Provider         VideoProvider `json:"provider"`
	VideoReferenceAr string        `json:"videoReferenceAr"`
	VideoReferenceEn string        `json:"videoReferenceEn"`
	IsActive         bool          `json:"isActive"`
	Order            int           `json:"order,omitempty"`
}

// VideoQuiz is a checkpoint shown while a video plays.
type VideoQuiz struct {
	ID           ident.ID `json:"id"`
	VideoID      ident.ID `json:"videoId"`
	Title        string   `json:"title"`
	AppearAt     int      `json:"appearAt"`
	PassingScore int      `json:"passingScore"`
	IsActive     bool     `json:"isActive"`
}
