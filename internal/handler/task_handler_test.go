package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoapp/internal/handler"
	"todoapp/internal/middleware"
	"todoapp/internal/model"
	"todoapp/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, userID uuid.UUID, params repository.TaskCreate) (*model.Task, error) {
	args := m.Called(ctx, userID, params)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uint, userID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id, userID)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uint, userID uuid.UUID, upd repository.TaskUpdate) (*model.Task, error) {
	args := m.Called(ctx, id, userID, upd)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, userID uuid.UUID, filter repository.TaskFilter) ([]model.Task, int64, error) {
	args := m.Called(ctx, userID, filter)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, 0, args.Error(2)
	}
	return tasks.([]model.Task), args.Get(1).(int64), args.Error(2)
}

func setupTaskTest(userID uuid.UUID) (*gin.Engine, *MockTaskRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockRepo := new(MockTaskRepository)
	taskHandler := handler.NewTaskHandler(mockRepo)

	// Stand-in for the JWT middleware
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	})

	r.POST("/tasks", taskHandler.Create)
	r.GET("/tasks", taskHandler.List)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.PUT("/tasks/:id", taskHandler.Update)
	r.DELETE("/tasks/:id", taskHandler.Delete)

	return r, mockRepo
}

func TestTaskCreate_Success(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	created := &model.Task{
		ID:        1,
		UserID:    userID,
		Title:     "Buy milk",
		Priority:  model.PriorityLow,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo.On("Create", mock.Anything, userID, repository.TaskCreate{
		Title:    "Buy milk",
		Priority: "low",
	}).Return(created, nil)

	reqBody := handler.TaskCreateRequest{Title: "Buy milk", Priority: "low"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), response.ID)
	assert.Equal(t, "Buy milk", response.Title)
	assert.Equal(t, "low", response.Priority)
	assert.False(t, response.Completed)

	mockRepo.AssertExpectations(t)
}

func TestTaskCreate_EmptyTitle(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest(uuid.New())

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString(`{"title": ""}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert - rejected by binding, repository never called
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestTaskCreate_ForeignTag(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	verr := &repository.ValidationError{Err: errors.New("one or more tags do not exist or belong to another user")}
	mockRepo.On("Create", mock.Anything, userID, mock.AnythingOfType("repository.TaskCreate")).Return(nil, verr)

	reqBody := handler.TaskCreateRequest{Title: "Buy milk", TagIDs: []uint{42}}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "belong to another user")

	mockRepo.AssertExpectations(t)
}

func TestTaskList_IncompleteFilter(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	taskA := model.Task{ID: 1, UserID: userID, Title: "Buy milk", Priority: model.PriorityLow}
	mockRepo.On("List", mock.Anything, userID, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.Status == repository.StatusIncomplete
	})).Return([]model.Task{taskA}, int64(1), nil)

	req, _ := http.NewRequest("GET", "/tasks?status=incomplete", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskListResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), response.Count)
	assert.Len(t, response.Tasks, 1)
	assert.Equal(t, "Buy milk", response.Tasks[0].Title)
	assert.Equal(t, int64(len(response.Tasks)), response.Count)

	mockRepo.AssertExpectations(t)
}

func TestTaskList_PriorityDescOrder(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	taskA := model.Task{ID: 1, UserID: userID, Title: "Buy milk", Priority: model.PriorityLow}
	taskB := model.Task{ID: 2, UserID: userID, Title: "Buy bread", Priority: model.PriorityHigh, Completed: true}
	mockRepo.On("List", mock.Anything, userID, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.Sort == repository.SortPriority && f.Order == repository.OrderDesc
	})).Return([]model.Task{taskB, taskA}, int64(2), nil)

	req, _ := http.NewRequest("GET", "/tasks?sort=priority&order=desc", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskListResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), response.Count)
	assert.Equal(t, "Buy bread", response.Tasks[0].Title)
	assert.Equal(t, "Buy milk", response.Tasks[1].Title)

	mockRepo.AssertExpectations(t)
}

func TestTaskList_SearchPassedThrough(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	tasks := []model.Task{
		{ID: 1, UserID: userID, Title: "Buy milk", Priority: model.PriorityLow},
		{ID: 2, UserID: userID, Title: "Buy bread", Priority: model.PriorityHigh, Completed: true},
	}
	mockRepo.On("List", mock.Anything, userID, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.Search == "buy"
	})).Return(tasks, int64(2), nil)

	req, _ := http.NewRequest("GET", "/tasks?search=buy", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskListResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), response.Count)

	mockRepo.AssertExpectations(t)
}

func TestTaskList_UnknownStatus(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest(uuid.New())

	req, _ := http.NewRequest("GET", "/tasks?status=archived", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "List")
}

func TestTaskGetByID_NotFound(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	mockRepo.On("GetByID", mock.Anything, uint(99), userID).Return(nil, repository.ErrTaskNotFound)

	req, _ := http.NewRequest("GET", "/tasks/99", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Task not found")

	mockRepo.AssertExpectations(t)
}

func TestTaskUpdate_ToggleCompleted(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	updated := &model.Task{ID: 1, UserID: userID, Title: "Buy milk", Priority: model.PriorityLow, Completed: true}
	mockRepo.On("Update", mock.Anything, uint(1), userID, mock.MatchedBy(func(u repository.TaskUpdate) bool {
		return u.Completed != nil && *u.Completed && u.Title == nil && u.TagIDs == nil
	})).Return(updated, nil)

	req, _ := http.NewRequest("PUT", "/tasks/1", bytes.NewBufferString(`{"completed": true}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Completed)

	mockRepo.AssertExpectations(t)
}

func TestTaskDelete_Success(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockRepo := setupTaskTest(userID)

	mockRepo.On("Delete", mock.Anything, uint(1), userID).Return(nil)

	req, _ := http.NewRequest("DELETE", "/tasks/1", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestTaskDelete_InvalidID(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest(uuid.New())

	req, _ := http.NewRequest("DELETE", "/tasks/not-a-number", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "Delete")
}
