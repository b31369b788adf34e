package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

const (
	scopePath           = "/open-apis/contact/v1/scope/get"
	departmentInfoPath  = "/open-apis/contact/v1/department/info/get"
	departmentUsersPath = "/open-apis/contact/v1/department/user/list"

	defaultPageSize = 100
)

// ListAuthorizedDepartments returns the contact scope granted to the app.
func (c *Client) ListAuthorizedDepartments(ctx context.Context) (map[string]any, error) {
	return c.get(ctx, scopePath, nil)
}

// GetDepartmentInfo returns metadata for a single department.
func (c *Client) GetDepartmentInfo(ctx context.Context, departmentID string) (map[string]any, error) {
	return c.get(ctx, departmentInfoPath, url.Values{
		"department_id": {departmentID},
	})
}

// ListDepartmentUsers returns one page of users in a department, including
// users of its child departments. pageSize <= 0 means 100.
func (c *Client) ListDepartmentUsers(ctx context.Context, departmentID string, pageSize, offset int) (map[string]any, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return c.get(ctx, departmentUsersPath, url.Values{
		"department_id": {departmentID},
		"page_size":     {strconv.Itoa(pageSize)},
		"offset":        {strconv.Itoa(offset)},
		"fetch_child":   {"true"},
	})
}

// SetHomeDepartment overrides the home department used by the Home* operations.
func (c *Client) SetHomeDepartment(departmentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.homeDepartment = departmentID
}

// HomeDepartment returns the home department id. Unless one was set with
// SetHomeDepartment, it is the first authorized department, looked up once.
func (c *Client) HomeDepartment(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.homeDepartment
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}

	v, err := c.shared(ctx, "home_department", func(ctx context.Context) (any, error) {
		c.mu.Lock()
		id := c.homeDepartment
		c.mu.Unlock()
		if id != "" {
			return id, nil
		}
		id, err := c.resolveHomeDepartment(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.homeDepartment != "" {
			// SetHomeDepartment ran while we were resolving.
			return c.homeDepartment, nil
		}
		c.homeDepartment = id
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) resolveHomeDepartment(ctx context.Context) (string, error) {
	resp, err := c.ListAuthorizedDepartments(ctx)
	if err != nil {
		return "", err
	}

	data, _ := resp["data"].(map[string]any)
	departments, ok := data["authed_departments"].([]any)
	if !ok {
		return "", &DecodeError{Path: scopePath, Err: fmt.Errorf("%w: data.authed_departments", ErrMissingField)}
	}
	if len(departments) == 0 {
		return "", ErrNoHomeDepartment
	}

	id := departmentID(departments[0])
	if id == "" {
		return "", ErrNoHomeDepartment
	}
	c.logger.Debug("home department resolved")
	return id, nil
}

func departmentID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// homeScope enforces the preconditions of the Home* operations: a token,
// then a home department.
func (c *Client) homeScope(ctx context.Context) (string, error) {
	if _, err := c.accessToken(ctx); err != nil {
		return "", err
	}
	return c.HomeDepartment(ctx)
}

// GetHomeDepartmentInfo returns metadata for the home department.
func (c *Client) GetHomeDepartmentInfo(ctx context.Context) (map[string]any, error) {
	id, err := c.homeScope(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetDepartmentInfo(ctx, id)
}

// ListHomeDepartmentUsers returns one page of users in the home department.
func (c *Client) ListHomeDepartmentUsers(ctx context.Context, pageSize, offset int) (map[string]any, error) {
	id, err := c.homeScope(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListDepartmentUsers(ctx, id, pageSize, offset)
}
