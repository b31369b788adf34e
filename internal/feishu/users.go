package feishu

import (
	"context"
	"fmt"
	"net/url"
)

const userBatchGetPath = "/open-apis/contact/v1/user/batch_get"

// GetUserDetail looks up a user by open id.
func (c *Client) GetUserDetail(ctx context.Context, openID string) (map[string]any, error) {
	return c.get(ctx, userBatchGetPath, url.Values{
		"open_ids": {openID},
	})
}

// FindHomeDepartmentUserByName scans the first page of home department users
// for an exact name match. The first match wins; an empty map means no match.
func (c *Client) FindHomeDepartmentUserByName(ctx context.Context, name string) (map[string]any, error) {
	id, err := c.homeScope(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.ListDepartmentUsers(ctx, id, defaultPageSize, 0)
	if err != nil {
		return nil, err
	}

	data, _ := resp["data"].(map[string]any)
	users, _ := data["user_list"].([]any)
	for _, u := range users {
		user, _ := u.(map[string]any)
		if user == nil {
			continue
		}
		if n, ok := user["name"].(string); ok && n == name {
			return user, nil
		}
	}
	return map[string]any{}, nil
}

// GetHomeDepartmentUserDetailByName finds a home department user by name and
// returns their detail record, or an empty map when no user matches.
func (c *Client) GetHomeDepartmentUserDetailByName(ctx context.Context, name string) (map[string]any, error) {
	if _, err := c.homeScope(ctx); err != nil {
		return nil, err
	}

	user, err := c.FindHomeDepartmentUserByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(user) == 0 {
		return map[string]any{}, nil
	}

	openID, _ := user["open_id"].(string)
	if openID == "" {
		return nil, &DecodeError{Path: departmentUsersPath, Err: fmt.Errorf("%w: open_id for user %q", ErrMissingField, name)}
	}
	return c.GetUserDetail(ctx, openID)
}
