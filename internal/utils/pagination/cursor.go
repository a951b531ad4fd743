package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	svcErr "github.com/oggyb/amigo-matching/internal/errors"
)

// Cursor is the opaque pagination state we encode/decode.
// UserID + CreatedUnixNano establish a stable position in a
// (created_at DESC, user id DESC) ordering. The timestamp keeps full precision:
// rounding it would skip rows sharing the boundary row's rounded instant.
type Cursor struct {
	UserID          int64 `json:"user_id"`
	CreatedUnixNano int64 `json:"created_unix_nano,omitempty"`
}

// NewCursor positions a cursor on the row (userID, createdAt).
func NewCursor(userID int64, createdAt time.Time) Cursor {
	return Cursor{UserID: userID, CreatedUnixNano: createdAt.UnixNano()}
}

// IsZero reports whether c is the first-page cursor.
func (c Cursor) IsZero() bool {
	return c.UserID <= 0 || c.CreatedUnixNano <= 0
}

// CreatedAt returns the boundary timestamp in UTC.
func (c Cursor) CreatedAt() time.Time {
	return time.Unix(0, c.CreatedUnixNano).UTC()
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token: %w", svcErr.ErrInvalidArgument)
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token: %w", svcErr.ErrInvalidArgument)
	}
	return c, nil
}
