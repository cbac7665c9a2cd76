package utils

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{
		CreatedAt: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		ID:        "3f1a9c2e-0d4b-4c5a-9e8f-1b2c3d4e5f6a",
	}

	token, err := EncodeCursor(original)
	require.NoError(t, err)
	assert.NotContains(t, token, "=", "token should be unpadded")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, original.ID, decoded.ID)
}

func TestDecodeCursorMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"not json", base64.RawURLEncoding.EncodeToString([]byte("not json"))},
		{"missing id", base64.RawURLEncoding.EncodeToString([]byte(`{"created_at":"2026-08-01T12:30:00Z"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
		})
	}
}
