package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tasktracker/internal/http/middleware"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signUpRequest) validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("email is invalid")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signInRequest) validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

func sessionMeta(c *gin.Context) service.SessionMeta {
	return service.SessionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	signed, err := h.Auth.SignUp(c.Request.Context(), req.Name, req.Email, req.Password, sessionMeta(c))
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			fail(c, http.StatusConflict, "email already taken")
			return
		}
		internalError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, signed.Token, int(time.Until(signed.Session.ExpiresAt).Seconds()), "/", "", h.SecureCookies, true)
	ok(c, gin.H{"user": signed.User, "token": signed.Token})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	signed, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password, sessionMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrUserBanned):
			fail(c, http.StatusForbidden, "account is banned")
		default:
			internalError(c, err)
		}
		return
	}

	c.SetCookie(middleware.SessionCookie, signed.Token, int(time.Until(signed.Session.ExpiresAt).Seconds()), "/", "", h.SecureCookies, true)
	ok(c, gin.H{"user": signed.User, "token": signed.Token})
}

func (h *Handler) SignOut(c *gin.Context) {
	identity, authed := middleware.Identity(c)
	if !authed {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Auth.SignOut(c.Request.Context(), identity.Session.ID); err != nil &&
		!errors.Is(err, repository.ErrSessionNotFound) {
		internalError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
	ok(c, nil)
}

// GetSession mirrors the identity middleware's result back to the
// client: the authenticated user and session, or nulls.
func (h *Handler) GetSession(c *gin.Context) {
	identity, authed := middleware.Identity(c)
	if !authed {
		c.JSON(http.StatusOK, gin.H{"user": nil, "session": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity.User, "session": identity.Session})
}
