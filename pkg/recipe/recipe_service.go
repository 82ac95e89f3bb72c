package recipe

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/entities"
	"Cookbook-Backend/internal/utils/storage"
	"Cookbook-Backend/pkg/ingredient"
	"Cookbook-Backend/pkg/relation"
	"Cookbook-Backend/pkg/tag"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, requesterID string) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID string, requesterID string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string, role string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string, role string) error
		AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeSummary, error)
		RemoveFavorite(ctx context.Context, recipeID string, userID string) error
		AddToCart(ctx context.Context, recipeID string, userID string) (domain.RecipeSummary, error)
		RemoveFromCart(ctx context.Context, recipeID string, userID string) error
		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		relationRepository   relation.RelationRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	relationRepository relation.RelationRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		relationRepository:   relationRepository,
		s3:                   s3,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, requesterID string) ([]domain.RecipeResponse, int64, error) {
	// favorited/in-cart filters only make sense for an identified caller
	if requesterID == "" {
		filter.FavoritedBy = ""
		filter.InCartOf = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		doc, err := s.toRecipeResponse(ctx, r, requesterID)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, doc)
	}
	return res, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, requesterID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, recipe, requesterID)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if err := validateCookingTime(req.CookingTime); err != nil {
		return domain.RecipeResponse{}, err
	}
	ingredients, err := s.buildIngredientRows(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	objectKey, err := s.s3.UploadBase64(uuid.New().String(), req.Image, "recipes", storage.AllowImage...)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    &userUUID,
		Name:        req.Name,
		ImageURL:    s.s3.GetPublicLink(objectKey),
		Text:        req.Text,
		CookingTime: req.CookingTime,
		PubDate:     time.Now(),
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tags, ingredients); err != nil {
		// the recipe row was rolled back, do not leave the image behind
		_ = s.s3.DeleteFile(objectKey)
		return domain.RecipeResponse{}, err
	}

	created, err := s.recipeRepository.GetRecipeByID(ctx, recipe.ID.String())
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, created, userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string, role string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if !canMutate(recipe, userID, role) {
		return domain.RecipeResponse{}, domain.ErrUserNotAllowed
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime != 0 {
		if err := validateCookingTime(req.CookingTime); err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.CookingTime = req.CookingTime
	}

	var tags []*entities.Tag
	if req.Tags != nil {
		tags, err = s.resolveTags(ctx, req.Tags)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	var ingredients []entities.RecipeIngredient
	if req.Ingredients != nil {
		ingredients, err = s.buildIngredientRows(ctx, req.Ingredients)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	if req.Image != "" {
		existingKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL)
		objectKey, err := s.s3.UploadBase64(uuid.New().String(), req.Image, "recipes", storage.AllowImage...)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		if existingKey != "" {
			_ = s.s3.DeleteFile(existingKey)
		}
		recipe.ImageURL = s.s3.GetPublicLink(objectKey)
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tags, ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	updated, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, updated, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string, role string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if !canMutate(recipe, userID, role) {
		return domain.ErrUserNotAllowed
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		_ = s.s3.DeleteFile(s.s3.GetObjectKeyFromLink(recipe.ImageURL))
	}
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeSummary, error) {
	return s.addRelation(ctx, relation.KindFavorite, recipeID, userID)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) error {
	return s.removeRelation(ctx, relation.KindFavorite, recipeID, userID)
}

func (s *recipeService) AddToCart(ctx context.Context, recipeID string, userID string) (domain.RecipeSummary, error) {
	return s.addRelation(ctx, relation.KindShoppingCart, recipeID, userID)
}

func (s *recipeService) RemoveFromCart(ctx context.Context, recipeID string, userID string) error {
	return s.removeRelation(ctx, relation.KindShoppingCart, recipeID, userID)
}

func (s *recipeService) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	return s.recipeRepository.AggregateShoppingList(ctx, userID)
}

// RenderShoppingList turns the aggregation into the flat attachment body,
// one "name: amount unit" line per distinct ingredient.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d %s", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String()
}

func (s *recipeService) addRelation(ctx context.Context, kind relation.Kind, recipeID string, userID string) (domain.RecipeSummary, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeSummary{}, domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeSummary{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeSummary{}, err
	}

	if err := s.relationRepository.Add(ctx, kind, userUUID, recipe.ID); err != nil {
		return domain.RecipeSummary{}, err
	}

	return toRecipeSummary(recipe), nil
}

func (s *recipeService) removeRelation(ctx context.Context, kind relation.Kind, recipeID string, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return s.relationRepository.Remove(ctx, kind, userUUID, recipeUUID)
}

// buildIngredientRows resolves the payload against the ingredient catalog
// and enforces the per-row invariants before anything touches the database.
func (s *recipeService) buildIngredientRows(ctx context.Context, reqs []domain.RecipeIngredientRequest) ([]entities.RecipeIngredient, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoIngredients
	}

	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, item := range reqs {
		if item.Amount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		if seen[item.ID] {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}

	found, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}

	rows := make([]entities.RecipeIngredient, 0, len(reqs))
	for _, item := range reqs {
		ingredientUUID, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		rows = append(rows, entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: ingredientUUID,
			Amount:       item.Amount,
		})
	}
	return rows, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []string) ([]*entities.Tag, error) {
	tags, err := s.tagRepository.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, domain.ErrTagNotFound
	}
	return tags, nil
}

func (s *recipeService) toRecipeResponse(ctx context.Context, r *entities.Recipe, requesterID string) (domain.RecipeResponse, error) {
	res := domain.RecipeResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		PubDate:     r.PubDate,
		Tags:        make([]domain.TagResponse, 0, len(r.Tags)),
		Ingredients: make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients)),
	}

	for _, t := range r.Tags {
		res.Tags = append(res.Tags, domain.TagResponse{
			ID:    t.ID.String(),
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	for _, ri := range r.Ingredients {
		item := domain.RecipeIngredientResponse{
			ID:     ri.IngredientID.String(),
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		res.Ingredients = append(res.Ingredients, item)
	}

	if r.Author != nil {
		res.Author = domain.UserResponse{
			ID:        r.Author.ID.String(),
			Email:     r.Author.Email,
			Username:  r.Author.Username,
			FirstName: r.Author.FirstName,
			LastName:  r.Author.LastName,
		}
	}

	// derived booleans stay false for anonymous requesters
	if requesterID != "" {
		requesterUUID, err := uuid.Parse(requesterID)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrParseUUID
		}

		favorited, err := s.relationRepository.Exists(ctx, relation.KindFavorite, requesterUUID, r.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsFavorited = favorited

		inCart, err := s.relationRepository.Exists(ctx, relation.KindShoppingCart, requesterUUID, r.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsInShoppingCart = inCart

		if r.Author != nil {
			subscribed, err := s.relationRepository.Exists(ctx, relation.KindFollow, requesterUUID, r.Author.ID)
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			res.Author.IsSubscribed = subscribed
		}
	}

	return res, nil
}

func toRecipeSummary(r *entities.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          r.ID.String(),
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

func canMutate(r *entities.Recipe, userID string, role string) bool {
	if role == domain.RoleAdmin || role == domain.RoleModerator {
		return true
	}
	return r.AuthorID != nil && r.AuthorID.String() == userID
}

func validateCookingTime(minutes int) error {
	if minutes <= 0 {
		return domain.ErrInvalidCookingTime
	}
	return nil
}
