package output

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// UserRow is the CSV projection of one department user_list entry.
type UserRow struct {
	OpenID     string `csv:"open_id"`
	UserID     string `csv:"user_id"`
	EmployeeID string `csv:"employee_id"`
	Name       string `csv:"name"`
	Email      string `csv:"email"`
	Mobile     string `csv:"mobile"`
}

// UserRows extracts data.user_list from a department users response.
// Entries that are not objects are skipped; missing fields are left blank.
func UserRows(resp map[string]any) []UserRow {
	data, _ := resp["data"].(map[string]any)
	users, _ := data["user_list"].([]any)

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		user, _ := u.(map[string]any)
		if user == nil {
			continue
		}
		rows = append(rows, UserRow{
			OpenID:     str(user, "open_id"),
			UserID:     str(user, "user_id"),
			EmployeeID: str(user, "employee_id"),
			Name:       str(user, "name"),
			Email:      str(user, "email"),
			Mobile:     str(user, "mobile"),
		})
	}
	return rows
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// PrintCSV writes rows to w with a header line.
func PrintCSV(w io.Writer, rows []UserRow) error {
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}
