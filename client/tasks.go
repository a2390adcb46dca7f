package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const tasksCacheKey = "tasks"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      *string   `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type ListTasksOptions struct {
	Limit  *int
	Offset *int
}

type taskResponse struct {
	Status string `json:"status"`
	Data   Task   `json:"data"`
}

type taskListResponse struct {
	Status string `json:"status"`
	Data   []Task `json:"data"`
}

// ListTasks fetches the caller's tasks and fills the cache under a
// fixed key. CachedTasks serves later reads without a request.
func (c *Client) ListTasks(ctx context.Context, opts *ListTasksOptions) ([]Task, error) {
	path := "/api/v1/tasks"
	if opts != nil {
		q := url.Values{}
		if opts.Limit != nil {
			q.Set("limit", strconv.Itoa(*opts.Limit))
		}
		if opts.Offset != nil {
			q.Set("offset", strconv.Itoa(*opts.Offset))
		}
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
	}

	var res taskListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	c.cache.set(tasksCacheKey, cloneTasks(res.Data))
	return res.Data, nil
}

// CachedTasks returns the last fetched (and locally patched) task list.
// The result is a copy; later patches never rewrite a returned slice.
func (c *Client) CachedTasks() ([]Task, bool) {
	v, ok := c.cache.get(tasksCacheKey, 0)
	if !ok {
		return nil, false
	}
	tasks, ok := v.([]Task)
	if !ok {
		return nil, false
	}
	return cloneTasks(tasks), true
}

// cloneTasks keeps the cached list's backing array private. Both set and
// read paths copy, so in-place patches cannot alias caller slices.
func cloneTasks(tasks []Task) []Task {
	cp := make([]Task, len(tasks))
	copy(cp, tasks)
	return cp
}

// CreateTask creates a task and appends it to the cached list.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error) {
	var res taskResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req, &res); err != nil {
		return Task{}, err
	}

	c.cache.update(tasksCacheKey, func(v any) any {
		tasks, ok := v.([]Task)
		if !ok {
			return v
		}
		return append(tasks, res.Data)
	})
	return res.Data, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (Task, error) {
	var res taskResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(id), nil, &res); err != nil {
		return Task{}, err
	}
	return res.Data, nil
}

// UpdateTask updates a task and replaces the matching cached entry.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (Task, error) {
	var res taskResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(id), req, &res); err != nil {
		return Task{}, err
	}

	c.cache.update(tasksCacheKey, func(v any) any {
		tasks, ok := v.([]Task)
		if !ok {
			return v
		}
		for i, t := range tasks {
			if t.ID == res.Data.ID {
				tasks[i] = res.Data
			}
		}
		return tasks
	})
	return res.Data, nil
}

// DeleteTask deletes a task and removes it from the cached list.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}

	c.cache.update(tasksCacheKey, func(v any) any {
		tasks, ok := v.([]Task)
		if !ok {
			return v
		}
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		return kept
	})
	return nil
}
