package domain

import (
	"errors"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetProfile       = "success get profile"
	MessageSuccessUpdateUser       = "user updated successfully"
	MessageSuccessChangePassword   = "password changed successfully"
	MessageSuccessForgotPassword   = "reset password email sent"
	MessageSuccessResetPassword    = "password reset successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetProfile       = "failed to get profile"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedChangePassword   = "failed to change password"
	MessageFailedForgotPassword   = "failed to send reset password email"
	MessageFailedResetPassword    = "failed to reset password"
	MessageFailedGetSubscriptions = "failed to get subscriptions"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"

	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrCredentialsInvalid    = errors.New("invalid email or password")
	ErrWrongOldPassword      = errors.New("wrong old password")
	ErrSelfFollow            = errors.New("cannot subscribe to yourself")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	// UserResponse is the short profile nested into recipe documents.
	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// SubscriptionResponse adds the author's recipes to the profile; Recipes
	// is capped by the recipes_limit query option.
	SubscriptionResponse struct {
		UserResponse
		Recipes      []RecipeSummary `json:"recipes"`
		RecipesCount int64           `json:"recipes_count"`
	}

	SubscriptionListResponse struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
		Total         int64                  `json:"total"`
	}
)
