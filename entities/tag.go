package entities

import (
	"github.com/google/uuid"
)

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:64" json:"name"`
	Color string    `gorm:"size:7;default:#FF0000" json:"color"`
	Slug  string    `gorm:"uniqueIndex;size:64" json:"slug"`
}
