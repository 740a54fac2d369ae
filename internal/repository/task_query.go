package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"todoapp/internal/model"
)

// Status filter values.
const (
	StatusAll        = "all"
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
)

// Sort keys and directions.
const (
	SortCreatedAt = "created_at"
	SortPriority  = "priority"
	SortTitle     = "title"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TaskFilter describes one list query over a user's tasks. Zero values
// mean "not filtered" for Search, Priority and TagIDs; Status, Sort and
// Order fall back to their defaults when empty.
type TaskFilter struct {
	Search   string
	Status   string
	Priority string
	TagIDs   []uint
	Sort     string
	Order    string
}

// normalize fills in defaults and rejects unknown enum values.
func (f TaskFilter) normalize() (TaskFilter, error) {
	if f.Status == "" {
		f.Status = StatusAll
	}
	if f.Sort == "" {
		f.Sort = SortCreatedAt
	}
	if f.Order == "" {
		f.Order = OrderDesc
	}

	switch f.Status {
	case StatusAll, StatusCompleted, StatusIncomplete:
	default:
		return f, &ValidationError{Err: fmt.Errorf("unknown status %q", f.Status)}
	}
	switch f.Sort {
	case SortCreatedAt, SortPriority, SortTitle:
	default:
		return f, &ValidationError{Err: fmt.Errorf("unknown sort key %q", f.Sort)}
	}
	switch f.Order {
	case OrderAsc, OrderDesc:
	default:
		return f, &ValidationError{Err: fmt.Errorf("unknown order %q", f.Order)}
	}
	if f.Priority != "" && !model.ValidPriority(f.Priority) {
		return f, &ValidationError{Err: fmt.Errorf("unknown priority %q", f.Priority)}
	}
	return f, nil
}

// orderExpr builds the ORDER BY clause for the sort key. Priority sorts
// by severity (high > medium > low), title case-insensitively; ties are
// always broken by id ascending so results are deterministic.
func (f TaskFilter) orderExpr() string {
	dir := "DESC"
	if f.Order == OrderAsc {
		dir = "ASC"
	}
	switch f.Sort {
	case SortTitle:
		return "LOWER(title) " + dir
	case SortPriority:
		return "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END " + dir
	default:
		return "created_at " + dir
	}
}

// escapeLike neutralizes LIKE metacharacters so the search text matches
// as a literal substring rather than a pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns the user's tasks matching filter, sorted, together with
// the count of the filtered set. It is a pure read and safe to retry.
func (r *TaskRepository) List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]model.Task, int64, error) {
	f, err := filter.normalize()
	if err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("user_id = ?", userID)

	switch f.Status {
	case StatusCompleted:
		q = q.Where("completed = ?", true)
	case StatusIncomplete:
		q = q.Where("completed = ?", false)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if len(f.TagIDs) > 0 {
		q = q.Where("id IN (SELECT task_id FROM task_tags WHERE tag_id IN ?)", dedupIDs(f.TagIDs))
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	result := q.
		Order(f.orderExpr()).
		Order("id ASC").
		Preload("Tags").
		Find(&tasks)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return tasks, count, nil
}
