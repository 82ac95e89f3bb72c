package user

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/entities"
	"Cookbook-Backend/internal/utils/mailing"
	"Cookbook-Backend/pkg/jwt"
	"Cookbook-Backend/pkg/recipe"
	"Cookbook-Backend/pkg/relation"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetProfile(ctx context.Context, targetID string, requesterID string) (domain.UserResponse, error)
		ChangePassword(ctx context.Context, req domain.ChangePasswordRequest, userID string) error
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		Subscribe(ctx context.Context, authorID string, followerID string) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, authorID string, followerID string) error
		GetSubscriptions(ctx context.Context, followerID string, recipesLimit int) (domain.SubscriptionListResponse, error)
	}

	userService struct {
		userRepository     UserRepository
		recipeRepository   recipe.RecipeRepository
		relationRepository relation.RelationRepository
		jwtService         jwt.JWTService
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationRepository relation.RelationRepository,
	jwtService jwt.JWTService,
) UserService {
	return &userService{
		userRepository:     userRepository,
		recipeRepository:   recipeRepository,
		relationRepository: relationRepository,
		jwtService:         jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	return toUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) GetProfile(ctx context.Context, targetID string, requesterID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	subscribed, err := s.isSubscribed(ctx, requesterID, user.ID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, subscribed), nil
}

func (s *userService) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(
		map[string]any{"user_id": user.ID.String()},
		time.Minute*30,
	)
	if err != nil {
		return err
	}

	return mailing.SendMail(
		user.Email,
		"Reset your password",
		mailing.ResetPasswordBody(user.Username, token),
	)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return err
	}

	userID := fmt.Sprintf("%v", claims["user_id"])
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) Subscribe(ctx context.Context, authorID string, followerID string) (domain.SubscriptionResponse, error) {
	if authorID == followerID {
		return domain.SubscriptionResponse{}, domain.ErrSelfFollow
	}

	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrParseUUID
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	if err := s.relationRepository.Add(ctx, relation.KindFollow, followerUUID, author.ID); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	return s.toSubscriptionResponse(ctx, author, 0)
}

func (s *userService) Unsubscribe(ctx context.Context, authorID string, followerID string) error {
	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return domain.ErrParseUUID
	}

	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return s.relationRepository.Remove(ctx, relation.KindFollow, followerUUID, authorUUID)
}

func (s *userService) GetSubscriptions(ctx context.Context, followerID string, recipesLimit int) (domain.SubscriptionListResponse, error) {
	authors, count, err := s.userRepository.GetFollowedAuthors(ctx, followerID)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	subscriptions := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		doc, err := s.toSubscriptionResponse(ctx, author, recipesLimit)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}
		subscriptions = append(subscriptions, doc)
	}

	return domain.SubscriptionListResponse{
		Subscriptions: subscriptions,
		Total:         count,
	}, nil
}

// toSubscriptionResponse builds the author profile embedded in subscription
// documents; recipesLimit <= 0 means no cap.
func (s *userService) toSubscriptionResponse(ctx context.Context, author *entities.User, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	count, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID.String())
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, domain.RecipeSummary{
			ID:          r.ID.String(),
			Name:        r.Name,
			ImageURL:    r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return domain.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

func (s *userService) isSubscribed(ctx context.Context, requesterID string, authorID uuid.UUID) (bool, error) {
	if requesterID == "" {
		return false, nil
	}
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return false, domain.ErrParseUUID
	}
	return s.relationRepository.Exists(ctx, relation.KindFollow, requesterUUID, authorID)
}

func toUserResponse(u *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}
