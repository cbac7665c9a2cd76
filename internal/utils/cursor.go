package utils

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
)

// Cursor points into a result set ordered by (created_at, id)
// descending. Clients only ever see its encoded form.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// EncodeCursor encodes a cursor as an opaque URL-safe token
func EncodeCursor(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeCursor decodes a page token produced by EncodeCursor. A
// malformed token is the caller's mistake, not a server failure.
func DecodeCursor(token string) (*Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid pagination token format. Please use a valid token or start without pagination.")
	}
	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, apperrors.InvalidInput("Invalid pagination token format. Please use a valid token or start without pagination.")
	}
	if cursor.ID == "" {
		return nil, apperrors.InvalidInput("Invalid pagination token format. Please use a valid token or start without pagination.")
	}
	return &cursor, nil
}
