package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    *uuid.UUID `gorm:"type:uuid;index" json:"author_id"`
	Name        string     `gorm:"size:100" json:"name"`
	ImageURL    string     `json:"image_url,omitempty"`
	Text        string     `gorm:"type:text" json:"text"`
	CookingTime int        `json:"cooking_time"`
	PubDate     time.Time  `gorm:"type:timestamp;index" json:"pub_date"`

	// Author stays nullable so recipes survive author deletion.
	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`

	Timestamp
}

type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}
