package recipe

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/entities"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []entities.RecipeIngredient) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []entities.RecipeIngredient) error
		DeleteRecipe(ctx context.Context, id string) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)
		AggregateShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipe persists the recipe together with its tag links and
// ingredient rows in one transaction; a failure on any row rolls back the
// whole write.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Replace(toTagValues(tags)); err != nil {
			return err
		}

		for i := range ingredients {
			ingredients[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&ingredients).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrDuplicateIngredient
			}
			return err
		}
		return nil
	})
}

// UpdateRecipe saves the mutated fields; when tags or ingredients are
// non-nil the respective set is replaced wholesale, so the recipe is never
// observable with a partial ingredient list.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Save(recipe).Error; err != nil {
			return err
		}

		if tags != nil {
			if err := tx.Model(recipe).Association("Tags").Replace(toTagValues(tags)); err != nil {
				return err
			}
		}

		if ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
				return err
			}
			for i := range ingredients {
				ingredients[i].RecipeID = recipe.ID
			}
			if err := tx.Create(&ingredients).Error; err != nil {
				if isDuplicateKey(err) {
					return domain.ErrDuplicateIngredient
				}
				return err
			}
		}
		return nil
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipes applies the AND-combined filters. Tag and association filters
// are expressed as id-subqueries so multi-tag matches stay distinct.
func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}

	if filter.FavoritedBy != "" {
		favorited := r.db.Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}

	if filter.InCartOf != "" {
		carted := r.db.Model(&entities.ShoppingCartEntry{}).
			Select("recipe_id").
			Where("user_id = ?", filter.InCartOf)
		query = query.Where("recipes.id IN (?)", carted)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.pub_date desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AggregateShoppingList sums ingredient amounts across every recipe in the
// user's cart, one row per distinct (name, unit), ordered by name.
func (r *recipeRepository) AggregateShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	items := []domain.ShoppingListItem{}
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func toTagValues(tags []*entities.Tag) []entities.Tag {
	values := make([]entities.Tag, 0, len(tags))
	for _, t := range tags {
		values = append(values, *t)
	}
	return values
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
