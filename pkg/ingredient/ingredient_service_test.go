package ingredient

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/entities"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) IngredientService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        dsn,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Ingredient{}))
	return NewIngredientService(NewIngredientRepository(db))
}

func TestGetIngredientsPrefixSearch(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	for _, seed := range []struct{ name, unit string }{
		{"Sugar", "g"},
		{"Sunflower oil", "ml"},
		{"Salt", "g"},
	} {
		_, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{
			Name:            seed.name,
			MeasurementUnit: seed.unit,
		})
		require.NoError(t, err)
	}

	// prefix match is case-insensitive
	res, err := service.GetIngredients(ctx, "su")
	require.NoError(t, err)
	require.Len(t, res, 2)

	names := []string{res[0].Name, res[1].Name}
	assert.Contains(t, names, "Sugar")
	assert.Contains(t, names, "Sunflower oil")

	all, err := service.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := service.GetIngredients(ctx, "pepper")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetIngredientByID(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	created, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:            "Flour",
		MeasurementUnit: "g",
	})
	require.NoError(t, err)

	found, err := service.GetIngredientByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = service.GetIngredientByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
