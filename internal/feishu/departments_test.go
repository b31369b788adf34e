package feishu_test

import (
	"encoding/json"
	"testing"

	"github.com/sethrylan/feishu-reader/internal/feishu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListChats_Query(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     string
		wantPageSize string
	}{
		{"defaults", 0, 0, "1", "100"},
		{"explicit", 3, 20, "3", "20"},
		{"negative", -1, -5, "1", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := newFakePlatform()
			srv := platform.serve(t)
			client := newTestClient(t, srv)

			_, err := client.ListChats(t.Context(), tt.page, tt.pageSize)
			require.NoError(t, err)

			calls := platform.callsTo(chatListPath)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantPage, calls[0].Query.Get("page"))
			assert.Equal(t, tt.wantPageSize, calls[0].Query.Get("page_size"))
		})
	}
}

func TestListDepartmentUsers_Query(t *testing.T) {
	platform := newFakePlatform()
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	resp, err := client.ListDepartmentUsers(t.Context(), "od-42", 0, 200)
	require.NoError(t, err)
	assert.Equal(t, json.Number("0"), resp["code"])

	calls := platform.callsTo(departmentUsersPath)
	require.Len(t, calls, 1)
	q := calls[0].Query
	assert.Equal(t, "od-42", q.Get("department_id"))
	assert.Equal(t, "100", q.Get("page_size"))
	assert.Equal(t, "200", q.Get("offset"))
	assert.Equal(t, "true", q.Get("fetch_child"))
}

func TestGetDepartmentInfo_ReturnsBodyVerbatim(t *testing.T) {
	platform := newFakePlatform()
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	resp, err := client.GetDepartmentInfo(t.Context(), "od-7")
	require.NoError(t, err)

	want := map[string]any{
		"code": json.Number("0"),
		"data": map[string]any{"department_info": map[string]any{"id": "od-7"}},
	}
	assert.Equal(t, want, resp)
}

func TestHomeDepartment_ResolvedOnce(t *testing.T) {
	platform := newFakePlatform()
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	id, err := client.HomeDepartment(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "od-home", id)

	_, err = client.GetHomeDepartmentInfo(t.Context())
	require.NoError(t, err)
	_, err = client.ListHomeDepartmentUsers(t.Context(), 10, 0)
	require.NoError(t, err)

	assert.Len(t, platform.callsTo(tokenPath), 1)
	assert.Len(t, platform.callsTo(scopePath), 1)

	info := platform.callsTo(departmentInfoPath)
	require.Len(t, info, 1)
	assert.Equal(t, "od-home", info[0].Query.Get("department_id"))

	users := platform.callsTo(departmentUsersPath)
	require.Len(t, users, 1)
	assert.Equal(t, "od-home", users[0].Query.Get("department_id"))
	assert.Equal(t, "10", users[0].Query.Get("page_size"))
}

func TestHomeDepartment_NumericID(t *testing.T) {
	platform := newFakePlatform()
	platform.scope = map[string]any{"data": map[string]any{"authed_departments": []any{6789}}}
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	id, err := client.HomeDepartment(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "6789", id)
}

func TestHomeDepartment_LargeNumericID(t *testing.T) {
	platform := newFakePlatform()
	platform.scope = map[string]any{"data": map[string]any{"authed_departments": []any{json.Number("1234567890123456789")}}}
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	id, err := client.HomeDepartment(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "1234567890123456789", id)

	resp, err := client.ListAuthorizedDepartments(t.Context())
	require.NoError(t, err)
	data, _ := resp["data"].(map[string]any)
	departments, _ := data["authed_departments"].([]any)
	require.Len(t, departments, 1)
	assert.Equal(t, json.Number("1234567890123456789"), departments[0])
}

func TestSetHomeDepartment_SkipsDiscovery(t *testing.T) {
	platform := newFakePlatform()
	srv := platform.serve(t)
	client := newTestClient(t, srv)
	client.SetHomeDepartment("od-override")

	_, err := client.GetHomeDepartmentInfo(t.Context())
	require.NoError(t, err)

	assert.Empty(t, platform.callsTo(scopePath))
	info := platform.callsTo(departmentInfoPath)
	require.Len(t, info, 1)
	assert.Equal(t, "od-override", info[0].Query.Get("department_id"))
}

func TestSetHomeDepartment_ReplacesDiscovered(t *testing.T) {
	platform := newFakePlatform()
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	id, err := client.HomeDepartment(t.Context())
	require.NoError(t, err)
	require.Equal(t, "od-home", id)

	client.SetHomeDepartment("od-other")
	id, err = client.HomeDepartment(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "od-other", id)
	assert.Len(t, platform.callsTo(scopePath), 1)
}

func TestHomeOperations_NoHomeDepartment(t *testing.T) {
	ops := map[string]func(c *feishu.Client) error{
		"HomeDepartment": func(c *feishu.Client) error {
			_, err := c.HomeDepartment(t.Context())
			return err
		},
		"GetHomeDepartmentInfo": func(c *feishu.Client) error {
			_, err := c.GetHomeDepartmentInfo(t.Context())
			return err
		},
		"ListHomeDepartmentUsers": func(c *feishu.Client) error {
			_, err := c.ListHomeDepartmentUsers(t.Context(), 100, 0)
			return err
		},
		"FindHomeDepartmentUserByName": func(c *feishu.Client) error {
			_, err := c.FindHomeDepartmentUserByName(t.Context(), "Alice")
			return err
		},
		"GetHomeDepartmentUserDetailByName": func(c *feishu.Client) error {
			_, err := c.GetHomeDepartmentUserDetailByName(t.Context(), "Alice")
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			platform := newFakePlatform()
			platform.scope = map[string]any{"code": 0, "data": map[string]any{"authed_departments": []any{}}}
			srv := platform.serve(t)
			client := newTestClient(t, srv)

			err := op(client)
			require.ErrorIs(t, err, feishu.ErrNoHomeDepartment)

			assert.Empty(t, platform.callsTo(departmentInfoPath))
			assert.Empty(t, platform.callsTo(departmentUsersPath))
			assert.Empty(t, platform.callsTo(userBatchGetPath))
		})
	}
}

func TestHomeDepartment_MissingField(t *testing.T) {
	platform := newFakePlatform()
	platform.scope = map[string]any{"code": 99991663, "msg": "app access token invalid"}
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	_, err := client.GetHomeDepartmentInfo(t.Context())

	var decodeErr *feishu.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.ErrorIs(t, err, feishu.ErrMissingField)
	assert.NotErrorIs(t, err, feishu.ErrNoHomeDepartment)
}

func TestHomeDepartment_FailureNotCached(t *testing.T) {
	platform := newFakePlatform()
	platform.scope = map[string]any{"data": map[string]any{"authed_departments": []any{}}}
	srv := platform.serve(t)
	client := newTestClient(t, srv)

	_, err := client.HomeDepartment(t.Context())
	require.ErrorIs(t, err, feishu.ErrNoHomeDepartment)
	_, err = client.HomeDepartment(t.Context())
	require.ErrorIs(t, err, feishu.ErrNoHomeDepartment)

	assert.Len(t, platform.callsTo(scopePath), 2)
}
