package repository

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"todoapp/internal/model"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, userID uuid.UUID, params TaskCreate) (*model.Task, error)
	GetByID(ctx context.Context, id uint, userID uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, id uint, userID uuid.UUID, upd TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, id uint, userID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]model.Task, int64, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskCreate holds the fields accepted when creating a task.
type TaskCreate struct {
	Title       string
	Description string
	Priority    string
	TagIDs      []uint
}

// TaskUpdate describes a partial update. Nil fields are left untouched;
// a non-nil TagIDs replaces the task's tag set (empty slice clears it).
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
	Completed   *bool
	TagIDs      []uint
}

// Create validates params and inserts a new task together with its tag
// associations in a single transaction. Tag ownership is checked inside
// the transaction so a concurrent tag deletion cannot slip through.
func (r *TaskRepository) Create(ctx context.Context, userID uuid.UUID, params TaskCreate) (*model.Task, error) {
	if params.Priority == "" {
		params.Priority = model.PriorityMedium
	}
	if err := validateTaskFields(params.Title, params.Description, params.Priority); err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      userID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Completed:   false,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := fetchOwnedTags(tx, userID, params.TagIDs)
		if err != nil {
			return err
		}
		task.Tags = tags
		return tx.Create(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetByID retrieves a task owned by userID, tags included.
func (r *TaskRepository) GetByID(ctx context.Context, id uint, userID uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Tags").
		First(&task, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// Update applies only the fields present in upd and refreshes updated_at.
// Changed fields are re-validated; a changed tag set is re-checked for
// ownership before the association is replaced.
func (r *TaskRepository) Update(ctx context.Context, id uint, userID uuid.UUID, upd TaskUpdate) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if upd.Title != nil {
			task.Title = *upd.Title
		}
		if upd.Description != nil {
			task.Description = *upd.Description
		}
		if upd.Priority != nil {
			task.Priority = *upd.Priority
		}
		if upd.Completed != nil {
			task.Completed = *upd.Completed
		}
		if err := validateTaskFields(task.Title, task.Description, task.Priority); err != nil {
			return err
		}

		if err := tx.Save(&task).Error; err != nil {
			return err
		}

		if upd.TagIDs != nil {
			tags, err := fetchOwnedTags(tx, userID, upd.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&task).Association("Tags").Replace(tags); err != nil {
				return err
			}
			task.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if task.Tags == nil {
		return r.GetByID(ctx, id, userID)
	}
	return &task, nil
}

// Delete removes a task and its tag associations. The tags themselves
// are left in place.
func (r *TaskRepository) Delete(ctx context.Context, id uint, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.First(&task, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", task.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

func validateTaskFields(title, description, priority string) error {
	var errs *multierror.Error
	if title == "" {
		errs = multierror.Append(errs, errors.New("title must not be empty"))
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		errs = multierror.Append(errs, fmt.Errorf("title exceeds %d characters", maxTitleLen))
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		errs = multierror.Append(errs, fmt.Errorf("description exceeds %d characters", maxDescriptionLen))
	}
	if !model.ValidPriority(priority) {
		errs = multierror.Append(errs, fmt.Errorf("priority must be one of %s, %s, %s",
			model.PriorityHigh, model.PriorityMedium, model.PriorityLow))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// fetchOwnedTags resolves ids to tags owned by userID. Any id that is
// missing or owned by another user fails the whole lookup.
func fetchOwnedTags(tx *gorm.DB, userID uuid.UUID, ids []uint) ([]model.Tag, error) {
	ids = dedupIDs(ids)
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	var tags []model.Tag
	if err := tx.Where("user_id = ? AND id IN ?", userID, ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, &ValidationError{Err: errors.New("one or more tags do not exist or belong to another user")}
	}
	return tags, nil
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
