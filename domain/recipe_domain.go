package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes    = "success get recipes"
	MessageSuccessGetRecipe     = "success get recipe detail"
	MessageSuccessCreateRecipe  = "recipe created successfully"
	MessageSuccessUpdateRecipe  = "recipe updated successfully"
	MessageSuccessDeleteRecipe  = "recipe deleted successfully"
	MessageSuccessAddFavorite   = "recipe added to favorites"
	MessageSuccessDelFavorite   = "recipe removed from favorites"
	MessageSuccessAddCart       = "recipe added to shopping cart"
	MessageSuccessDelCart       = "recipe removed from shopping cart"
	MessageSuccessShoppingList  = "success get shopping list"

	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedGetRecipe    = "failed to get recipe detail"
	MessageFailedCreateRecipe = "failed to create recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedDeleteRecipe = "failed to delete recipe"
	MessageFailedAddFavorite  = "failed to add recipe to favorites"
	MessageFailedDelFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddCart      = "failed to add recipe to shopping cart"
	MessageFailedDelCart      = "failed to remove recipe from shopping cart"
	MessageFailedShoppingList = "failed to get shopping list"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrInvalidCookingTime  = errors.New("cooking time must be greater than 0")
	ErrInvalidAmount       = errors.New("ingredient amount must be greater than 0")
	ErrDuplicateIngredient = errors.New("ingredient listed twice for the same recipe")
	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,gt=0"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=100"`
		Image       string                    `json:"image" validate:"required"` // base64 payload
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,gt=0"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name" validate:"omitempty,max=100"`
		Image       string                    `json:"image" validate:"omitempty"`
		Text        string                    `json:"text" validate:"omitempty"`
		CookingTime int                       `json:"cooking_time" validate:"omitempty,gt=0"`
		Tags        []string                  `json:"tags" validate:"omitempty,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"omitempty,min=1,dive"`
	}

	RecipeFilter struct {
		TagSlugs       []string
		AuthorID       string
		FavoritedBy    string // requester id; empty for anonymous callers
		InCartOf       string
		Page           int
		Limit          int
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		Name             string                     `json:"name"`
		ImageURL         string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		PubDate          time.Time                  `json:"pub_date"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	}

	// RecipeSummary is the compact document returned by the toggle endpoints
	// and embedded into subscription profiles.
	RecipeSummary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int    `json:"total_amount"`
	}
)
