package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todoapp/internal/model"
	"todoapp/internal/repository"
)

type TagHandler struct {
	repo repository.TagRepositoryInterface
}

func NewTagHandler(repo repository.TagRepositoryInterface) *TagHandler {
	return &TagHandler{repo: repo}
}

type TagCreateRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"omitempty,hexcolor,len=7"`
}

// TagUpdateRequest carries a partial update: only non-null fields are
// applied. An empty color string clears the color; shorthand hex forms
// are rejected, the store only takes #RRGGBB.
type TagUpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,hexcolor,len=7"`
}

type TagResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	TaskCount int    `json:"task_count"`
	CreatedAt string `json:"created_at"`
}

func toTagResponse(tag *model.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		TaskCount: tag.TaskCount,
		CreatedAt: tag.CreatedAt.Format(time.RFC3339),
	}
}

// Create adds a new tag for the authenticated user.
// @Summary      Create a tag
// @Tags         Tags
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body TagCreateRequest true "Tag data"
// @Success      201 {object} TagResponse
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TagCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tag, err := h.repo.Create(c.Request.Context(), userID, repository.TagCreate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTagResponse(tag))
}

// List returns all tags of the user, each with its task count.
// @Summary      List tags with task counts
// @Tags         Tags
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} TagResponse
// @Router       /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tags, err := h.repo.ListWithCounts(c.Request.Context(), userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	response := make([]TagResponse, len(tags))
	for i := range tags {
		response[i] = toTagResponse(&tags[i])
	}

	c.JSON(http.StatusOK, response)
}

// Update applies a partial update to one tag.
// @Summary      Update a tag
// @Tags         Tags
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int              true "Tag ID"
// @Param        request body TagUpdateRequest true "Fields to change"
// @Success      200 {object} TagResponse
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /tags/{id} [put]
func (h *TagHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TagUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tag, err := h.repo.Update(c.Request.Context(), id, userID, repository.TagUpdate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTagResponse(tag))
}

// Delete removes one tag and detaches it from every task.
// @Summary      Delete a tag
// @Tags         Tags
// @Security     BearerAuth
// @Param        id path int true "Tag ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
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
