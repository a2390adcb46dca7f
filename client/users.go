package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// usersStaleTime bounds how long an admin user page is served from
// cache before it is refetched.
const usersStaleTime = 5 * time.Minute

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Banned    bool      `json:"banned"`
	BanReason *string   `json:"banReason"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UsersPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

type authPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type authResponse struct {
	Status string      `json:"status"`
	Data   authPayload `json:"data"`
}

// SignUp registers a new user and keeps the returned session token for
// subsequent requests.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var res authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/sign-up/email", body, &res); err != nil {
		return User{}, err
	}
	c.token = res.Data.Token
	return res.Data.User, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}

	var res authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/sign-in/email", body, &res); err != nil {
		return User{}, err
	}
	c.token = res.Data.Token
	return res.Data.User, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/sign-out", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// usersCacheKey includes every query parameter so distinct admin
// queries cache independently.
func usersCacheKey(limit, offset int, search string) string {
	return fmt.Sprintf("admin-users:%d:%d:%s", limit, offset, search)
}

// ListUsers fetches a page of the admin user table. Pages are cached
// per (limit, offset, search) and served from cache inside the
// staleness window.
func (c *Client) ListUsers(ctx context.Context, limit, offset int, search string) (UsersPage, error) {
	key := usersCacheKey(limit, offset, search)
	if v, okCached := c.cache.get(key, usersStaleTime); okCached {
		if page, okType := v.(UsersPage); okType {
			return page, nil
		}
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if search != "" {
		q.Set("searchValue", search)
	}

	var res struct {
		Status string    `json:"status"`
		Data   UsersPage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/admin/list-users?"+q.Encode(), nil, &res); err != nil {
		return UsersPage{}, err
	}

	c.cache.set(key, res.Data)
	return res.Data, nil
}

// BanUser bans a user. Cached admin pages are invalidated rather than
// patched, matching the refetch-on-next-read behavior.
func (c *Client) BanUser(ctx context.Context, userID string, reason *string) error {
	body := map[string]any{"userId": userID}
	if reason != nil {
		body["banReason"] = *reason
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/admin/ban-user", body, nil); err != nil {
		return err
	}
	c.invalidateUserPages()
	return nil
}

func (c *Client) UnbanUser(ctx context.Context, userID string) error {
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/admin/unban-user", map[string]string{"userId": userID}, nil); err != nil {
		return err
	}
	c.invalidateUserPages()
	return nil
}

func (c *Client) UpdateUser(ctx context.Context, userID, name string) error {
	body := map[string]any{
		"userId": userID,
		"data":   map[string]string{"name": name},
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/admin/update-user", body, nil); err != nil {
		return err
	}
	c.invalidateUserPages()
	return nil
}

func (c *Client) invalidateUserPages() {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	for key := range c.cache.entries {
		if strings.HasPrefix(key, "admin-users") {
			delete(c.cache.entries, key)
		}
	}
}
