package content

import (
	"time"

	"github.com/yungbote/lesson-admin/internal/domain/ident"
)

type Level struct {
	ID   ident.ID `json:"id"`
	Name string   `json:"name"`
}

type Lesson struct {
	ID          ident.ID   `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsActive    bool       `json:"isActive"`
	LevelID     ident.ID   `json:"levelId,omitempty"`
	Level       *Level     `json:"level,omitempty"`
	Order       int        `json:"order,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
