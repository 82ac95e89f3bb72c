package relation

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/entities"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind selects which association table a toggle operates on. Favorite,
// shopping cart and follow share the same absent/present state machine, so
// they share one implementation parameterized by this enum.
type Kind int

const (
	KindFavorite Kind = iota
	KindShoppingCart
	KindFollow
)

type descriptor struct {
	newRow     func(subjectID, objectID uuid.UUID) any
	model      any
	subjectCol string
	objectCol  string
}

var descriptors = map[Kind]descriptor{
	KindFavorite: {
		newRow: func(subjectID, objectID uuid.UUID) any {
			return &entities.Favorite{ID: uuid.New(), UserID: subjectID, RecipeID: objectID, CreatedAt: time.Now()}
		},
		model:      &entities.Favorite{},
		subjectCol: "user_id",
		objectCol:  "recipe_id",
	},
	KindShoppingCart: {
		newRow: func(subjectID, objectID uuid.UUID) any {
			return &entities.ShoppingCartEntry{ID: uuid.New(), UserID: subjectID, RecipeID: objectID, CreatedAt: time.Now()}
		},
		model:      &entities.ShoppingCartEntry{},
		subjectCol: "user_id",
		objectCol:  "recipe_id",
	},
	KindFollow: {
		newRow: func(subjectID, objectID uuid.UUID) any {
			return &entities.Follow{ID: uuid.New(), FollowerID: subjectID, AuthorID: objectID, CreatedAt: time.Now()}
		},
		model:      &entities.Follow{},
		subjectCol: "follower_id",
		objectCol:  "author_id",
	},
}

type (
	RelationRepository interface {
		Add(ctx context.Context, kind Kind, subjectID, objectID uuid.UUID) error
		Remove(ctx context.Context, kind Kind, subjectID, objectID uuid.UUID) error
		Exists(ctx context.Context, kind Kind, subjectID, objectID uuid.UUID) (bool, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// Add transitions the pair absent -> present. The existence check catches
// the common case early; the unique index remains the authority under
// concurrent inserts, so a duplicate-key failure also maps to
// ErrRelationExists.
func (r *relationRepository) Add(ctx context.Context, kind Kind, subjectID, objectID uuid.UUID) error {
	d := descriptors[kind]
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(d.model).
			Where(d.subjectCol+" = ? AND "+d.objectCol+" = ?", subjectID, objectID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrRelationExists
		}

		if err := tx.Create(d.newRow(subjectID, objectID)).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrRelationExists
			}
			return err
		}
		return nil
	})
}

func (r *relationRepository) Remove(ctx context.Context, kind Kind, subjectID, objectID uuid.UUID) error {
	d := descriptors[kind]
	result := r.db.WithContext(ctx).
		Where(d.subjectCol+" = ? AND "+d.objectCol+" = ?", subjectID, objectID).
		Delete(d.model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRelationNotFound
	}
	return nil
}

func (r *relationRepository) Exists(ctx context.Context, kind Kind, subjectID, objectID uuid.UUID) (bool, error) {
	d := descriptors[kind]
	var count int64
	if err := r.db.WithContext(ctx).Model(d.model).
		Where(d.subjectCol+" = ? AND "+d.objectCol+" = ?", subjectID, objectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite and postgres drivers do not always wrap into ErrDuplicatedKey
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
