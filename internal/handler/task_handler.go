package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todoapp/internal/model"
	"todoapp/internal/repository"
)

type TaskHandler struct {
	repo repository.TaskRepositoryInterface
}

func NewTaskHandler(repo repository.TaskRepositoryInterface) *TaskHandler {
	return &TaskHandler{repo: repo}
}

type TaskCreateRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=high medium low"`
	TagIDs      []uint `json:"tag_ids"`
}

// TaskUpdateRequest carries a partial update: only non-null fields are
// applied. tag_ids, when present, replaces the task's tag set.
type TaskUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=high medium low"`
	Completed   *bool   `json:"completed"`
	TagIDs      []uint  `json:"tag_ids"`
}

type TaskListQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=all completed incomplete"`
	Priority string `form:"priority" binding:"omitempty,oneof=high medium low"`
	Tags     []uint `form:"tags"`
	Sort     string `form:"sort" binding:"omitempty,oneof=created_at priority title"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

type TaskResponse struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Priority    string        `json:"priority"`
	Completed   bool          `json:"completed"`
	Tags        []TagResponse `json:"tags"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int64          `json:"count"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	tags := make([]TagResponse, len(task.Tags))
	for i, tag := range task.Tags {
		tags[i] = toTagResponse(&tag)
	}
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Completed:   task.Completed,
		Tags:        tags,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}

// Create adds a new task for the authenticated user.
// @Summary      Create a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body TaskCreateRequest true "Task data"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.repo.Create(c.Request.Context(), userID, repository.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GetByID returns one task of the authenticated user.
// @Summary      Get a task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Task ID"
// @Success      200 {object} TaskResponse
// @Failure      404 {object} map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// List returns the user's tasks filtered and sorted per query params,
// together with the count of the filtered set.
// @Summary      List tasks
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        search   query string false "Substring match on title and description"
// @Param        status   query string false "all | completed | incomplete"
// @Param        priority query string false "high | medium | low"
// @Param        tags     query []int  false "Tag IDs; a task matches if it carries any of them"
// @Param        sort     query string false "created_at | priority | title"
// @Param        order    query string false "asc | desc"
// @Success      200 {object} TaskListResponse
// @Failure      400 {object} map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q TaskListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	tasks, count, err := h.repo.List(c.Request.Context(), userID, repository.TaskFilter{
		Search:   q.Search,
		Status:   q.Status,
		Priority: q.Priority,
		TagIDs:   q.Tags,
		Sort:     q.Sort,
		Order:    q.Order,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	response := TaskListResponse{
		Tasks: make([]TaskResponse, len(tasks)),
		Count: count,
	}
	for i := range tasks {
		response.Tasks[i] = toTaskResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

// Update applies a partial update to one task.
// @Summary      Update a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int               true "Task ID"
// @Param        request body TaskUpdateRequest true "Fields to change"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.repo.Update(c.Request.Context(), id, userID, repository.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes one task. Its tags survive.
// @Summary      Delete a task
// @Tags         Tasks
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, userID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
