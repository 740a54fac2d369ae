package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"todoapp/internal/model"
)

const maxTagNameLen = 50

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type TagRepository struct {
	db *gorm.DB
}

type TagRepositoryInterface interface {
	Create(ctx context.Context, userID uuid.UUID, params TagCreate) (*model.Tag, error)
	GetByID(ctx context.Context, id uint, userID uuid.UUID) (*model.Tag, error)
	Update(ctx context.Context, id uint, userID uuid.UUID, upd TagUpdate) (*model.Tag, error)
	Delete(ctx context.Context, id uint, userID uuid.UUID) error
	ListWithCounts(ctx context.Context, userID uuid.UUID) ([]model.Tag, error)
}

var _ TagRepositoryInterface = (*TagRepository)(nil)

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// TagCreate holds the fields accepted when creating a tag. Color is
// optional; when present it must be a #RRGGBB string.
type TagCreate struct {
	Name  string
	Color string
}

// TagUpdate describes a partial update. Nil fields are left untouched;
// a non-nil empty Color clears the color.
type TagUpdate struct {
	Name  *string
	Color *string
}

// Create validates params and inserts a new tag. Name uniqueness is
// enforced per user inside the transaction, backed by the unique index.
func (r *TagRepository) Create(ctx context.Context, userID uuid.UUID, params TagCreate) (*model.Tag, error) {
	if err := validateTagFields(params.Name, params.Color); err != nil {
		return nil, err
	}

	tag := &model.Tag{
		UserID: userID,
		Name:   params.Name,
		Color:  params.Color,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, userID, params.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(tag).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTagName
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// GetByID retrieves a tag owned by userID.
func (r *TagRepository) GetByID(ctx context.Context, id uint, userID uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	result := r.db.WithContext(ctx).First(&tag, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, result.Error
	}
	return &tag, nil
}

// Update applies only the fields present in upd, re-running the same
// validation and uniqueness checks as Create on the changed fields.
func (r *TagRepository) Update(ctx context.Context, id uint, userID uuid.UUID, upd TagUpdate) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}

		if upd.Name != nil {
			tag.Name = *upd.Name
		}
		if upd.Color != nil {
			tag.Color = *upd.Color
		}
		if err := validateTagFields(tag.Name, tag.Color); err != nil {
			return err
		}
		if upd.Name != nil {
			if err := checkNameAvailable(tx, userID, tag.Name, tag.ID); err != nil {
				return err
			}
		}

		if err := tx.Save(&tag).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTagName
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag and detaches it from every task that references
// it. The tasks themselves are left in place.
func (r *TagRepository) Delete(ctx context.Context, id uint, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		if err := tx.First(&tag, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// ListWithCounts returns all tags owned by userID, each annotated with
// the number of tasks referencing it.
func (r *TagRepository) ListWithCounts(ctx context.Context, userID uuid.UUID) ([]model.Tag, error) {
	var tags []model.Tag
	result := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tags.*, COUNT(task_tags.task_id) AS task_count").
		Joins("LEFT JOIN task_tags ON task_tags.tag_id = tags.id").
		Where("tags.user_id = ?", userID).
		Group("tags.id").
		Order("tags.name ASC").
		Find(&tags)
	if result.Error != nil {
		return nil, result.Error
	}
	return tags, nil
}

func validateTagFields(name, color string) error {
	var errs *multierror.Error
	if name == "" {
		errs = multierror.Append(errs, errors.New("name must not be empty"))
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		errs = multierror.Append(errs, fmt.Errorf("name exceeds %d characters", maxTagNameLen))
	}
	if color != "" && !colorPattern.MatchString(color) {
		errs = multierror.Append(errs, errors.New("color must be a #RRGGBB hex string"))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// checkNameAvailable enforces per-user name uniqueness. excludeID skips
// the tag being updated so renaming a tag to its own name is a no-op.
func checkNameAvailable(tx *gorm.DB, userID uuid.UUID, name string, excludeID uint) error {
	var count int64
	q := tx.Model(&model.Tag{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateTagName
	}
	return nil
}
