package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const dateFormat = time.DateOnly

// Cursor is the position of the last row of a page of journal entries,
// which are listed by (date, entry id) descending.
type Cursor struct {
	Date    time.Time
	EntryID string
}

// EncodeToken creates a base64 encoded token from an entry date and id.
func EncodeToken(entryDate time.Time, entryID string) string {
	tokenStr := fmt.Sprintf("%s|%s", entryDate.Format(dateFormat), entryID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return Cursor{Date: entryDate, EntryID: parts[1]}, nil
}

// After reports whether a row at (date, id) comes after c in descending order.
func (c Cursor) After(date time.Time, entryID string) bool {
	if !date.Equal(c.Date) {
		return date.Before(c.Date)
	}
	return entryID < c.EntryID
}
