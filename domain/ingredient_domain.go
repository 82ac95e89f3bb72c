package domain

import (
	"errors"
)

var (
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessCreateIngredient = "ingredient created successfully"

	MessageFailedGetIngredients   = "failed to get ingredients"
	MessageFailedCreateIngredient = "failed to create ingredient"

	ErrIngredientNotFound = errors.New("ingredient not found")
)

type (
	CreateIngredientRequest struct {
		Name            string `json:"name" validate:"required,max=128"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=32"`
	}

	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
)
