package handlers

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/entities"
	"Cookbook-Backend/internal/middleware"
	"Cookbook-Backend/internal/utils"
	"Cookbook-Backend/pkg/ingredient"
	"Cookbook-Backend/pkg/jwt"
	"Cookbook-Backend/pkg/recipe"
	"Cookbook-Backend/pkg/relation"
	"Cookbook-Backend/pkg/tag"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type handlerStorage struct{}

func (handlerStorage) UploadBase64(fileName string, payload string, folder string, allowTypes ...string) (string, error) {
	return fmt.Sprintf("%s/%s.jpg", folder, fileName), nil
}

func (handlerStorage) DeleteFile(objectKey string) error { return nil }

func (handlerStorage) GetObjectKeyFromLink(link string) string { return link }

func (handlerStorage) GetPublicLink(objectKey string) string { return "https://cdn.test/" + objectKey }

type handlerFixture struct {
	app        *fiber.App
	db         *gorm.DB
	jwtService jwt.JWTService
}

func setupHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        dsn,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCartEntry{},
		&entities.Follow{},
	))

	utils.InitValidator()

	recipeService := recipe.NewRecipeService(
		recipe.NewRecipeRepository(db),
		tag.NewTagRepository(db),
		ingredient.NewIngredientRepository(db),
		relation.NewRelationRepository(db),
		handlerStorage{},
	)
	handler := NewRecipeHandler(recipeService, utils.Validate)

	jwtService := jwt.NewJWTService()
	mw := middleware.NewMiddleware()

	app := fiber.New()
	app.Get("/api/v1/recipes/download_shopping_cart", mw.AuthMiddleware(jwtService), handler.DownloadShoppingCart)
	app.Get("/api/v1/recipes", mw.SoftAuthMiddleware(jwtService), handler.GetRecipes)
	app.Get("/api/v1/recipes/:id", mw.SoftAuthMiddleware(jwtService), handler.GetRecipeDetail)
	app.Post("/api/v1/recipes/:id/favorite", mw.AuthMiddleware(jwtService), handler.AddFavorite)
	app.Delete("/api/v1/recipes/:id/favorite", mw.AuthMiddleware(jwtService), handler.RemoveFavorite)
	app.Post("/api/v1/recipes/:id/shopping_cart", mw.AuthMiddleware(jwtService), handler.AddToCart)

	return &handlerFixture{app: app, db: db, jwtService: jwtService}
}

func (f *handlerFixture) seedUser(t *testing.T, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleUser,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *handlerFixture) seedRecipe(t *testing.T, author *entities.User, name string) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    &author.ID,
		Name:        name,
		CookingTime: 10,
		PubDate:     time.Now(),
	}
	require.NoError(t, f.db.Create(r).Error)
	return r
}

type recipeListDocument struct {
	Success bool `json:"success"`
	Data    struct {
		Recipes    []domain.RecipeResponse `json:"recipes"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
		} `json:"pagination"`
	} `json:"data"`
}

func decodeRecipeList(t *testing.T, res *http.Response) recipeListDocument {
	t.Helper()
	var doc recipeListDocument
	require.NoError(t, json.NewDecoder(res.Body).Decode(&doc))
	return doc
}

func TestGetRecipesAnonymousFavoriteFilterIgnored(t *testing.T) {
	f := setupHandlerFixture(t)
	ctx := context.Background()

	chef := f.seedUser(t, "chef")
	pancakes := f.seedRecipe(t, chef, "Pancakes")
	f.seedRecipe(t, chef, "Waffles")

	relationRepo := relation.NewRelationRepository(f.db)
	require.NoError(t, relationRepo.Add(ctx, relation.KindFavorite, chef.ID, pancakes.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes?is_favorited=1", nil)
	res, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	doc := decodeRecipeList(t, res)
	assert.True(t, doc.Success)
	assert.EqualValues(t, 2, doc.Data.Pagination.Total)
	assert.Len(t, doc.Data.Recipes, 2)
	for _, r := range doc.Data.Recipes {
		assert.False(t, r.IsFavorited)
	}

	// the same query with a token narrows to the caller's favorites
	token := f.jwtService.GenerateTokenUser(chef.ID.String(), chef.Role)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/recipes?is_favorited=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	doc = decodeRecipeList(t, res)
	require.Len(t, doc.Data.Recipes, 1)
	assert.Equal(t, "Pancakes", doc.Data.Recipes[0].Name)
	assert.True(t, doc.Data.Recipes[0].IsFavorited)
}

func TestFavoriteToggleStatusCodes(t *testing.T) {
	f := setupHandlerFixture(t)

	chef := f.seedUser(t, "chef")
	cake := f.seedRecipe(t, chef, "Cake")
	token := f.jwtService.GenerateTokenUser(chef.ID.String(), chef.Role)

	target := fmt.Sprintf("/api/v1/recipes/%s/favorite", cake.ID)

	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	// repeated add is a conflict
	req = httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	// removing again is not found
	req = httptest.NewRequest(http.MethodDelete, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// toggles require a token
	req = httptest.NewRequest(http.MethodPost, target, nil)
	res, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestDownloadShoppingCartAttachment(t *testing.T) {
	f := setupHandlerFixture(t)
	ctx := context.Background()

	chef := f.seedUser(t, "chef")
	buyer := f.seedUser(t, "buyer")
	r := f.seedRecipe(t, chef, "Pancakes")

	flour := &entities.Ingredient{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, f.db.Create(flour).Error)
	require.NoError(t, f.db.Create(&entities.RecipeIngredient{
		ID:           uuid.New(),
		RecipeID:     r.ID,
		IngredientID: flour.ID,
		Amount:       200,
	}).Error)

	relationRepo := relation.NewRelationRepository(f.db)
	require.NoError(t, relationRepo.Add(ctx, relation.KindShoppingCart, buyer.ID, r.ID))

	token := f.jwtService.GenerateTokenUser(buyer.ID.String(), buyer.Role)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/download_shopping_cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get(fiber.HeaderContentType), "text/plain")
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), "attachment")

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "Flour: 200 g", string(body))
}
