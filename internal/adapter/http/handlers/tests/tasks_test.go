package tests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testUserID = "user-1"

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, ownerID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, ownerID, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	return m.Called(ctx, ownerID, taskID).Error(0)
}

func (m *taskServiceMock) TaskStats(ctx context.Context, ownerID string) (domain.TaskStats, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.TaskStats), args.Error(1)
}

// withUser stands in for AuthMiddleware.
func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func newRouter(serviceMock *taskServiceMock) *gin.Engine {
	handler := handlers.NewTaskHandler(serviceMock)

	router := gin.New()
	tasks := router.Group("/api/tasks", middleware.RequestIDMiddleware(), middleware.LanguageMiddleware(), withUser(testUserID))
	tasks.GET("", handler.ListTasks)
	tasks.GET("/stats", handler.TaskStats)
	tasks.POST("", handler.CreateTask)
	tasks.PUT("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.JsonErr {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	description := "2 litres"
	createdAt := time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)
	updatedAt := time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC)

	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, testUserID, domain.TaskFilter{Status: domain.TaskStatusAll}).Return(
		[]domain.Task{
			{
				ID:          "65cb1f0a9d3e4b2a1c0d9e8f",
				Title:       "Buy milk",
				Description: &description,
				Completed:   true,
				OwnerID:     testUserID,
				CreatedAt:   createdAt,
				UpdatedAt:   updatedAt,
			},
		},
		nil,
	).Once()

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "65cb1f0a9d3e4b2a1c0d9e8f", got[0].ID)
	require.Equal(t, "Buy milk", got[0].Title)
	require.Equal(t, "2 litres", *got[0].Description)
	require.True(t, got[0].Completed)
	require.Equal(t, testUserID, got[0].User)
	require.Equal(t, "2026-02-13T10:20:30.000Z", got[0].CreatedAt)
	require.Equal(t, "2026-02-13T11:20:30.000Z", got[0].UpdatedAt)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_EmptyIsArray(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, testUserID, mock.Anything).Return(nil, nil).Once()

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskHandler_ListTasks_StatusFilter(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, testUserID, domain.TaskFilter{Status: domain.TaskStatusCompleted}).
		Return([]domain.Task{}, nil).Once()

	router := newRouter(serviceMock)
	rec := serve(router, http.MethodGet, "/api/tasks?status=completed", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/api/tasks?status=archived", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid task filter", decodeError(t, rec).ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	storeErr := fmt.Errorf("find tasks: %w", errors.New("connection refused: mongo:27017"))
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, testUserID, mock.Anything).Return(nil, storeErr).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	newRouter(serviceMock).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusInternalServerError, got.ErrDetails.Code)
	require.Equal(t, "Server error", got.ErrDetails.Message)
	require.NotContains(t, rec.Body.String(), "mongo")
	serviceMock.AssertExpectations(t)

	entries := logs.FilterMessage("failed to list tasks").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.Equal(t, "req-42", fields["request_id"])
	require.Equal(t, testUserID, fields["user_id"])
	require.Equal(t, storeErr.Error(), fields["error"])
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	createdAt := time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)

	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, testUserID, domain.CreateTaskInput{Title: "Buy milk"}).Return(
		domain.Task{
			ID:        "65cb1f0a9d3e4b2a1c0d9e8f",
			Title:     "Buy milk",
			OwnerID:   testUserID,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		nil,
	).Once()

	rec := serve(newRouter(serviceMock), http.MethodPost, "/api/tasks", `{"title":"  Buy milk "}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Buy milk", got.Title)
	require.False(t, got.Completed)
	require.Nil(t, got.Description)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_TitleRequired(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := serve(newRouter(serviceMock), http.MethodPost, "/api/tasks", `{"title":"   ","description":"x"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "Invalid task payload", got.ErrDetails.Message)
	require.Equal(t, []apierrors.FieldError{{Field: "title", Message: "Title is required"}}, got.ErrDetails.Fields)
	serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_CreateTask_MalformedJSON(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := serve(newRouter(serviceMock), http.MethodPost, "/api/tasks", `{"title":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "Invalid task payload", got.ErrDetails.Message)
	require.Empty(t, got.ErrDetails.Fields)
}

func TestTaskHandler_CreateTask_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, testUserID, mock.Anything).
		Return(domain.Task{}, errors.New("write concern error")).Once()

	rec := serve(newRouter(serviceMock), http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Server error", decodeError(t, rec).ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_PartialUpdate(t *testing.T) {
	completed := true
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, testUserID, "t1", domain.UpdateTaskInput{Completed: &completed}).Return(
		domain.Task{ID: "t1", Title: "Buy milk", Completed: true, OwnerID: testUserID},
		nil,
	).Once()

	rec := serve(newRouter(serviceMock), http.MethodPut, "/api/tasks/t1", `{"completed":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Completed)
	require.Equal(t, "Buy milk", got.Title)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_EmptyTitle(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := serve(newRouter(serviceMock), http.MethodPut, "/api/tasks/t1", `{"title":"  "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, []apierrors.FieldError{{Field: "title", Message: "Title cannot be empty"}}, got.ErrDetails.Fields)
	serviceMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_UpdateTask_WrongType(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := serve(newRouter(serviceMock), http.MethodPut, "/api/tasks/t1", `{"completed":"yes"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, []apierrors.FieldError{{Field: "completed", Message: "completed has an invalid type"}}, got.ErrDetails.Fields)
}

func TestTaskHandler_UpdateTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, testUserID, "missing", mock.Anything).
		Return(domain.Task{}, domain.ErrTaskNotFound).Once()

	rec := serve(newRouter(serviceMock), http.MethodPut, "/api/tasks/missing", `{"title":"x"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusNotFound, got.ErrDetails.Code)
	require.Equal(t, "Task not found", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, testUserID, "t1", mock.Anything).
		Return(domain.Task{}, errors.New("db is down")).Once()

	rec := serve(newRouter(serviceMock), http.MethodPut, "/api/tasks/t1", `{"title":"x"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Server error", decodeError(t, rec).ErrDetails.Message)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("DeleteTask", mock.Anything, testUserID, "t1").Return(nil).Once()
	serviceMock.On("DeleteTask", mock.Anything, testUserID, "t1").Return(domain.ErrTaskNotFound).Once()
	serviceMock.On("DeleteTask", mock.Anything, testUserID, "t2").Return(errors.New("db is down")).Once()
	router := newRouter(serviceMock)

	rec := serve(router, http.MethodDelete, "/api/tasks/t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Task deleted successfully"}`, rec.Body.String())

	rec = serve(router, http.MethodDelete, "/api/tasks/t1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Task not found", decodeError(t, rec).ErrDetails.Message)

	rec = serve(router, http.MethodDelete, "/api/tasks/t2", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_TaskStats(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("TaskStats", mock.Anything, testUserID).
		Return(domain.TaskStats{Total: 3, Completed: 1, Remaining: 2}, nil).Once()

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/tasks/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"total":3,"completed":1,"remaining":2}`, rec.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_RequiresUser(t *testing.T) {
	serviceMock := new(taskServiceMock)
	handler := handlers.NewTaskHandler(serviceMock)

	router := gin.New()
	router.POST("/api/tasks", middleware.LanguageMiddleware(), handler.CreateTask)

	rec := serve(router, http.MethodPost, "/api/tasks", `{"title":""}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, http.StatusUnauthorized, decodeError(t, rec).ErrDetails.Code)
	serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}
