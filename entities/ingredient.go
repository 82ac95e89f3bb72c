package entities

import (
	"github.com/google/uuid"
)

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"size:128;index" json:"name"`
	MeasurementUnit string    `gorm:"size:32" json:"measurement_unit"`
}
