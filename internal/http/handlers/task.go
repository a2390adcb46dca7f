package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (r createTaskRequest) validate() error {
	if r.Title == nil || *r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// validate bounds the fields in characters, not bytes, so multibyte
// titles are measured the way users count them.
func (r updateTaskRequest) validate() error {
	if r.Title != nil {
		if n := utf8.RuneCountInString(*r.Title); n < 2 || n > 100 {
			return errors.New("title must be between 2 and 100 characters")
		}
	}
	if r.Description != nil {
		if n := utf8.RuneCountInString(*r.Description); n < 2 || n > 1000 {
			return errors.New("description must be between 2 and 1000 characters")
		}
	}
	return nil
}

const (
	minListLimit  = 1
	maxListLimit  = 100
	maxListOffset = 100000
)

// parseListQuery validates ?limit and ?offset. Bounds: limit 1..100,
// offset 0..100000. Absent values stay nil and the service applies its
// defaults.
func parseListQuery(c *gin.Context) (service.ListTasksInput, error) {
	var in service.ListTasksInput

	if raw, present := c.GetQuery("limit"); present {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minListLimit || n > maxListLimit {
			return in, fmt.Errorf("limit must be an integer between %d and %d", minListLimit, maxListLimit)
		}
		in.Limit = &n
	}
	if raw, present := c.GetQuery("offset"); present {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxListOffset {
			return in, fmt.Errorf("offset must be an integer between 0 and %d", maxListOffset)
		}
		in.Offset = &n
	}
	return in, nil
}

// taskIDParam parses the :id path parameter. A malformed UUID is a 400,
// never a 404.
func taskIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.New("id must be a valid UUID")
	}
	return id, nil
}

func (h *Handler) CreateTask(c *gin.Context) {
	user, authed := currentUser(c)
	if !authed {
		return
	}

	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.Tasks.CreateTask(c.Request.Context(), user.ID, service.CreateTaskInput{
		Title:       *req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, task)
}

func (h *Handler) ListTasks(c *gin.Context) {
	user, authed := currentUser(c)
	if !authed {
		return
	}

	in, err := parseListQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.Tasks.GetTasks(c.Request.Context(), user.ID, in)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	user, authed := currentUser(c)
	if !authed {
		return
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.Tasks.GetTask(c.Request.Context(), user.ID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		internalError(c, err)
		return
	}
	ok(c, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	user, authed := currentUser(c)
	if !authed {
		return
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.Tasks.UpdateTask(c.Request.Context(), user.ID, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpdate):
			fail(c, http.StatusUnprocessableEntity, "No fields to update")
		case errors.Is(err, repository.ErrTaskNotFound):
			fail(c, http.StatusNotFound, "Task not found")
		default:
			internalError(c, err)
		}
		return
	}
	ok(c, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	user, authed := currentUser(c)
	if !authed {
		return
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Tasks.DeleteTask(c.Request.Context(), user.ID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		internalError(c, err)
		return
	}
	ok(c, nil)
}
