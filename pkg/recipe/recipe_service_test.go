package recipe

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/entities"
	"Cookbook-Backend/pkg/ingredient"
	"Cookbook-Backend/pkg/relation"
	"Cookbook-Backend/pkg/tag"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// fakeStorage keeps uploads out of the tests; keys follow the real layout.
type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) UploadBase64(fileName string, payload string, folder string, allowTypes ...string) (string, error) {
	return fmt.Sprintf("%s/%s.jpg", folder, fileName), nil
}

func (f *fakeStorage) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeStorage) GetObjectKeyFromLink(link string) string {
	return link[len("https://cdn.test/"):]
}

func (f *fakeStorage) GetPublicLink(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

type testEnv struct {
	db      *gorm.DB
	service RecipeService
	storage *fakeStorage
}

func setupTestEnv(t *testing.T) *testEnv {
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

	fs := &fakeStorage{}
	service := NewRecipeService(
		NewRecipeRepository(db),
		tag.NewTagRepository(db),
		ingredient.NewIngredientRepository(db),
		relation.NewRelationRepository(db),
		fs,
	)
	return &testEnv{db: db, service: service, storage: fs}
}

func (e *testEnv) seedUser(t *testing.T, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleUser,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) seedTag(t *testing.T, name, slug string) *entities.Tag {
	t.Helper()
	tg := &entities.Tag{ID: uuid.New(), Name: name, Color: "#00FF00", Slug: slug}
	require.NoError(t, e.db.Create(tg).Error)
	return tg
}

func (e *testEnv) seedIngredient(t *testing.T, name, unit string) *entities.Ingredient {
	t.Helper()
	ing := &entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, e.db.Create(ing).Error)
	return ing
}

func (e *testEnv) createRecipe(t *testing.T, author *entities.User, name string, tagID string, parts ...domain.RecipeIngredientRequest) domain.RecipeResponse {
	t.Helper()
	res, err := e.service.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name:        name,
		Image:       "data:image/jpeg;base64,aGVsbG8=",
		Text:        "stir and serve",
		CookingTime: 15,
		Tags:        []string{tagID},
		Ingredients: parts,
	}, author.ID.String())
	require.NoError(t, err)
	return res
}

func TestCreateRecipeAndGetDetail(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "chef")
	breakfast := env.seedTag(t, "Breakfast", "breakfast")
	flour := env.seedIngredient(t, "Flour", "g")
	sugar := env.seedIngredient(t, "Sugar", "g")

	created := env.createRecipe(t, author, "Pancakes", breakfast.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 200},
		domain.RecipeIngredientRequest{ID: sugar.ID.String(), Amount: 50},
	)

	detail, err := env.service.GetRecipeDetail(ctx, created.ID, author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", detail.Name)
	assert.Equal(t, author.ID.String(), detail.Author.ID)
	assert.Len(t, detail.Tags, 1)
	assert.Equal(t, "breakfast", detail.Tags[0].Slug)
	assert.Len(t, detail.Ingredients, 2)
	assert.False(t, detail.IsFavorited)
	assert.False(t, detail.IsInShoppingCart)
	assert.Contains(t, detail.ImageURL, "https://cdn.test/recipes/")
}

func TestCreateRecipeRejectsBadInput(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "chef")
	tg := env.seedTag(t, "Lunch", "lunch")
	flour := env.seedIngredient(t, "Flour", "g")

	base := domain.CreateRecipeRequest{
		Name:        "Bread",
		Image:       "data:image/jpeg;base64,aGVsbG8=",
		Text:        "bake",
		CookingTime: 60,
		Tags:        []string{tg.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: flour.ID.String(), Amount: 500}},
	}

	req := base
	req.CookingTime = 0
	_, err := env.service.CreateRecipe(ctx, req, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidCookingTime)

	req = base
	req.Ingredients = []domain.RecipeIngredientRequest{{ID: flour.ID.String(), Amount: 0}}
	_, err = env.service.CreateRecipe(ctx, req, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = base
	req.Ingredients = []domain.RecipeIngredientRequest{
		{ID: flour.ID.String(), Amount: 100},
		{ID: flour.ID.String(), Amount: 200},
	}
	_, err = env.service.CreateRecipe(ctx, req, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)

	req = base
	req.Ingredients = []domain.RecipeIngredientRequest{{ID: uuid.New().String(), Amount: 100}}
	_, err = env.service.CreateRecipe(ctx, req, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	req = base
	req.Tags = []string{uuid.New().String()}
	_, err = env.service.CreateRecipe(ctx, req, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestUpdateRecipeOwnership(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "chef")
	stranger := env.seedUser(t, "stranger")
	tg := env.seedTag(t, "Dinner", "dinner")
	flour := env.seedIngredient(t, "Flour", "g")

	created := env.createRecipe(t, author, "Pasta", tg.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 300},
	)

	patch := domain.UpdateRecipeRequest{Name: "Pasta Carbonara"}

	_, err := env.service.UpdateRecipe(ctx, created.ID, patch, stranger.ID.String(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUserNotAllowed)

	updated, err := env.service.UpdateRecipe(ctx, created.ID, patch, author.ID.String(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Pasta Carbonara", updated.Name)

	// moderators may edit anyone's recipe
	updated, err = env.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: "Pasta"}, stranger.ID.String(), domain.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", updated.Name)
}

func TestDeleteRecipe(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "chef")
	stranger := env.seedUser(t, "stranger")
	tg := env.seedTag(t, "Dinner", "dinner")
	flour := env.seedIngredient(t, "Flour", "g")

	created := env.createRecipe(t, author, "Pasta", tg.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 300},
	)

	err := env.service.DeleteRecipe(ctx, created.ID, stranger.ID.String(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUserNotAllowed)

	require.NoError(t, env.service.DeleteRecipe(ctx, created.ID, author.ID.String(), domain.RoleUser))

	_, err = env.service.GetRecipeDetail(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.NotEmpty(t, env.storage.deleted)
}

func TestFavoriteToggle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "chef")
	reader := env.seedUser(t, "reader")
	tg := env.seedTag(t, "Dessert", "dessert")
	sugar := env.seedIngredient(t, "Sugar", "g")

	created := env.createRecipe(t, author, "Cake", tg.ID.String(),
		domain.RecipeIngredientRequest{ID: sugar.ID.String(), Amount: 150},
	)

	summary, err := env.service.AddFavorite(ctx, created.ID, reader.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, summary.ID)
	assert.Equal(t, "Cake", summary.Name)

	_, err = env.service.AddFavorite(ctx, created.ID, reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrRelationExists)

	detail, err := env.service.GetRecipeDetail(ctx, created.ID, reader.ID.String())
	require.NoError(t, err)
	assert.True(t, detail.IsFavorited)

	require.NoError(t, env.service.RemoveFavorite(ctx, created.ID, reader.ID.String()))

	err = env.service.RemoveFavorite(ctx, created.ID, reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrRelationNotFound)

	_, err = env.service.AddFavorite(ctx, uuid.New().String(), reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestShoppingListAggregation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "chef")
	buyer := env.seedUser(t, "buyer")
	tg := env.seedTag(t, "Breakfast", "breakfast")
	flour := env.seedIngredient(t, "Flour", "g")
	sugar := env.seedIngredient(t, "Sugar", "g")

	pancakes := env.createRecipe(t, author, "Pancakes", tg.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 200},
		domain.RecipeIngredientRequest{ID: sugar.ID.String(), Amount: 100},
	)
	waffles := env.createRecipe(t, author, "Waffles", tg.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 50},
	)

	_, err := env.service.AddToCart(ctx, pancakes.ID, buyer.ID.String())
	require.NoError(t, err)
	_, err = env.service.AddToCart(ctx, waffles.ID, buyer.ID.String())
	require.NoError(t, err)

	items, err := env.service.GetShoppingList(ctx, buyer.ID.String())
	require.NoError(t, err)

	// same ingredient across recipes is summed, rows come back ordered by name
	require.Len(t, items, 2)
	assert.Equal(t, domain.ShoppingListItem{Name: "Flour", MeasurementUnit: "g", TotalAmount: 250}, items[0])
	assert.Equal(t, domain.ShoppingListItem{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 100}, items[1])

	assert.Equal(t, "Flour: 250 g\nSugar: 100 g", RenderShoppingList(items))
}

func TestShoppingListEmptyCart(t *testing.T) {
	env := setupTestEnv(t)
	buyer := env.seedUser(t, "buyer")

	items, err := env.service.GetShoppingList(context.Background(), buyer.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "", RenderShoppingList(items))
}

func TestGetRecipesFilters(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	chef := env.seedUser(t, "chef")
	baker := env.seedUser(t, "baker")
	breakfast := env.seedTag(t, "Breakfast", "breakfast")
	dinner := env.seedTag(t, "Dinner", "dinner")
	flour := env.seedIngredient(t, "Flour", "g")

	pancakes := env.createRecipe(t, chef, "Pancakes", breakfast.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 200},
	)
	env.createRecipe(t, baker, "Pasta", dinner.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 300},
	)

	byTag, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"breakfast"}}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, byTag, 1)
	assert.Equal(t, pancakes.ID, byTag[0].ID)

	byAuthor, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{AuthorID: baker.ID.String()}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Pasta", byAuthor[0].Name)

	_, err = env.service.AddFavorite(ctx, pancakes.ID, baker.ID.String())
	require.NoError(t, err)

	favorited, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{FavoritedBy: baker.ID.String()}, baker.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, favorited, 1)
	assert.True(t, favorited[0].IsFavorited)
}

func TestGetRecipesAnonymousIgnoresAssociationFilters(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	chef := env.seedUser(t, "chef")
	tg := env.seedTag(t, "Breakfast", "breakfast")
	flour := env.seedIngredient(t, "Flour", "g")

	first := env.createRecipe(t, chef, "Pancakes", tg.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 200},
	)
	env.createRecipe(t, chef, "Waffles", tg.ID.String(),
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 100},
	)

	_, err := env.service.AddFavorite(ctx, first.ID, chef.ID.String())
	require.NoError(t, err)

	// an anonymous caller asking for favorites gets the unfiltered list
	recipes, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{FavoritedBy: chef.ID.String()}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, recipes, 2)
	for _, r := range recipes {
		assert.False(t, r.IsFavorited)
		assert.False(t, r.IsInShoppingCart)
	}
}

func TestGetRecipesPagination(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	chef := env.seedUser(t, "chef")

	for i := 0; i < 5; i++ {
		recipe := &entities.Recipe{
			ID:          uuid.New(),
			AuthorID:    &chef.ID,
			Name:        fmt.Sprintf("Recipe %d", i),
			CookingTime: 10,
			PubDate:     time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.db.Create(recipe).Error)
	}

	page1, count, err := env.service.GetRecipes(ctx, domain.RecipeFilter{Page: 1, Limit: 2}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
	require.Len(t, page1, 2)

	page3, _, err := env.service.GetRecipes(ctx, domain.RecipeFilter{Page: 3, Limit: 2}, "")
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	// newest first
	assert.Equal(t, "Recipe 4", page1[0].Name)
}
