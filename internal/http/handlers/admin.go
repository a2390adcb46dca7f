package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tasktracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type banUserRequest struct {
	UserID    string  `json:"userId"`
	BanReason *string `json:"banReason"`
}

type unbanUserRequest struct {
	UserID string `json:"userId"`
}

type updateUserRequest struct {
	UserID string `json:"userId"`
	Data   struct {
		Name string `json:"name"`
	} `json:"data"`
}

// ListUsers serves the admin user table: paged, optionally filtered by
// email substring. Distinct queries are cached client-side per
// (limit, offset, search) key.
func (h *Handler) ListUsers(c *gin.Context) {
	limit := 50
	if raw, present := c.GetQuery("limit"); present {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			fail(c, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	offset := 0
	if raw, present := c.GetQuery("offset"); present {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = n
	}

	search := c.Query("searchValue")

	users, total, err := h.Auth.ListUsers(c.Request.Context(), limit, offset, search)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, gin.H{"users": users, "total": total})
}

func (h *Handler) BanUser(c *gin.Context) {
	var req banUserRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		fail(c, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}

	if err := h.Auth.BanUser(c.Request.Context(), userID, req.BanReason); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		internalError(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handler) UnbanUser(c *gin.Context) {
	var req unbanUserRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		fail(c, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}

	if err := h.Auth.UnbanUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		internalError(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		fail(c, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}
	if req.Data.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}

	user, err := h.Auth.UpdateUser(c.Request.Context(), userID, req.Data.Name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		internalError(c, err)
		return
	}
	ok(c, user)
}
