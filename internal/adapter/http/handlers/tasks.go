package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/mapper"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID, ok := requireUser(c, lang)
	if !ok {
		return
	}

	status, err := domain.ParseTaskStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskFilter, lang),
		)
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID, domain.TaskFilter{Status: status})
	if err != nil {
		logFailure(c, "failed to list tasks", err)
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTasks, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) TaskStats(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID, ok := requireUser(c, lang)
	if !ok {
		return
	}

	stats, err := h.taskService.TaskStats(c.Request.Context(), userID)
	if err != nil {
		logFailure(c, "failed to compute task stats", err)
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailTaskStats, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskStats(stats))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID, ok := requireUser(c, lang)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondInvalidPayload(c, lang, &validation.Error{MessageID: apierrors.MsgInvalidTaskPayload})
		return
	}

	var req dto.CreateTaskRequest
	if _, err := validation.DecodeTaskPayload(body, &req); err != nil {
		respondInvalidPayload(c, lang, err)
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		respondInvalidPayload(c, lang, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, input)
	if err != nil {
		logFailure(c, "failed to create task", err)
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailCreateTask, lang),
		)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID, ok := requireUser(c, lang)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondInvalidPayload(c, lang, &validation.Error{MessageID: apierrors.MsgInvalidTaskPayload})
		return
	}

	var req dto.UpdateTaskRequest
	raw, err := validation.DecodeTaskPayload(body, &req)
	if err != nil {
		respondInvalidPayload(c, lang, err)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		respondInvalidPayload(c, lang, err)
		return
	}

	taskID := c.Param("id")
	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, taskID, input)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			respondTaskNotFound(c, lang)
			return
		}

		logFailure(c, "failed to update task", err, zap.String("task_id", taskID))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailUpdateTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID, ok := requireUser(c, lang)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			respondTaskNotFound(c, lang)
			return
		}

		logFailure(c, "failed to delete task", err, zap.String("task_id", taskID))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailDeleteTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: translator.Localize(lang, apierrors.MsgTaskDeleted, nil)})
}

// requireUser answers 401 when the route was reached without a resolved caller.
func requireUser(c *gin.Context, lang string) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatusJSON(
			http.StatusUnauthorized,
			apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthorized, lang),
		)
		return "", false
	}
	return userID, true
}

func respondTaskNotFound(c *gin.Context, lang string) {
	c.JSON(
		http.StatusNotFound,
		apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
	)
}

func respondInvalidPayload(c *gin.Context, lang string, err error) {
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		vErr = &validation.Error{MessageID: apierrors.MsgInvalidTaskPayload}
	}
	c.JSON(
		http.StatusBadRequest,
		apierrors.CreateValidationError(http.StatusBadRequest, vErr.MessageID, lang, vErr.Violations),
	)
}

func logFailure(c *gin.Context, msg string, err error, fields ...zap.Field) {
	userID, _ := middleware.GetUserID(c)
	fields = append(fields,
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("user_id", userID),
		zap.Error(err),
	)
	zap.L().Error(msg, fields...)
	_ = c.Error(err)
}
