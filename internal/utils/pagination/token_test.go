package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	entryID := "01968a5e-7c1b-7d2e-9f00-1234567890ab"

	token := EncodeToken(entryDate, entryID)
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.True(t, entryDate.Equal(cursor.Date), "Entry date should match after decode")
	assert.Equal(t, entryID, cursor.EntryID, "Entry id should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.RawURLEncoding.EncodeToString([]byte("2025-05-15"))
	_, err = DecodeToken(noSeparator)
	assert.Error(t, err, "Should return an error for a token without separator")
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|abc"))
	_, err = DecodeToken(badDate)
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "date parse")
}

func TestCursorAfter(t *testing.T) {
	day := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	c := Cursor{Date: day, EntryID: "b"}

	assert.True(t, c.After(day.AddDate(0, 0, -1), "z"), "earlier date comes after in descending order")
	assert.False(t, c.After(day.AddDate(0, 0, 1), "a"), "later date comes before")
	assert.True(t, c.After(day, "a"), "same date, smaller id comes after")
	assert.False(t, c.After(day, "b"), "the cursor row itself is excluded")
	assert.False(t, c.After(day, "c"))
}
