package content

import "github.com/yungbote/lesson-admin/internal/domain/ident"

type LessonAssignment struct {
	ID          ident.ID `json:"id"`
	LessonID    ident.ID `json:"lessonId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate,omitempty"`
	MaxScore    int      `json:"maxScore"`
	FileURL     string   `json:"fileUrl,omitempty"`
	IsActive    bool     `json:"isActive"`
}

type MaterialType string

const (
	MaterialFile MaterialType = "file"
	MaterialLink MaterialType = "link"
)

type LessonMaterial struct {
	ID       ident.ID     `json:"id"`
	LessonID ident.ID     `json:"lessonId"`
	Title    string       `json:"title"`
	Type     MaterialType `json:"type"`
	URL      string       `json:"url,omitempty"`
	FileURL  string       `json:"fileUrl,omitempty"`
	IsActive bool         `json:"isActive"`
	Order    int          `json:"order,omitempty"`
}
