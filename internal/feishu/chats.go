package feishu

import (
	"context"
	"net/url"
	"strconv"
)

const chatListPath = "/open-apis/chat/v3/list"

// ListChats returns one page of the chats the app is a member of. Callers
// page manually; page <= 0 means 1 and pageSize <= 0 means 100.
func (c *Client) ListChats(ctx context.Context, page, pageSize int) (map[string]any, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return c.get(ctx, chatListPath, url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	})
}
