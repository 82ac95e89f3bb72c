package tag

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

func setupTestService(t *testing.T) TagService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        dsn,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Tag{}))
	return NewTagService(NewTagRepository(db))
}

func TestCreateAndListTags(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	_, err := service.CreateTag(ctx, domain.CreateTagRequest{Name: "Dinner", Color: "#0000FF", Slug: "dinner"})
	require.NoError(t, err)
	_, err = service.CreateTag(ctx, domain.CreateTagRequest{Name: "Breakfast", Color: "#FF0000", Slug: "breakfast"})
	require.NoError(t, err)

	tags, err := service.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// listed in name order
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "Dinner", tags[1].Name)
}

func TestGetTagByID(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	created, err := service.CreateTag(ctx, domain.CreateTagRequest{Name: "Lunch", Color: "#00FF00", Slug: "lunch"})
	require.NoError(t, err)

	found, err := service.GetTagByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = service.GetTagByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
