package handlers

import (
	"errors"
	"net/http"

	"tasktracker/internal/domain"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/logger"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tasks *service.TaskService
	Auth  *service.AuthService

	// SecureCookies marks session cookies Secure; set when the API is
	// served over https.
	SecureCookies bool
}

func NewHandler(tasks *service.TaskService, auth *service.AuthService) *Handler {
	return &Handler{Tasks: tasks, Auth: auth}
}

// currentUser returns the authenticated user. Routes behind RequireAuth
// always have one; the fallback 401 covers misconfigured routes.
func currentUser(c *gin.Context) (*domain.User, bool) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
		})
		return nil, false
	}
	return identity.User, true
}

func ok(c *gin.Context, data any) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": data})
}

// bindJSON decodes the request body into dst, answering 400 on bad JSON
// and 413 when the body limit cut the read short. Chunked bodies carry
// no Content-Length, so the limit can only surface here.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		fail(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	fail(c, http.StatusBadRequest, "invalid request body")
	return false
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// internalError logs the cause server-side and answers with a generic
// message; internal detail never reaches the client.
func internalError(c *gin.Context, err error) {
	logger.Error("unhandled error", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	fail(c, http.StatusInternalServerError, "Internal server error")
}
