package paging

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

var ErrInvalidCursor = errors.New("invalid cursor")

type cursor struct {
	T  time.Time `json:"t"`
	ID uuid.UUID `json:"id"`
}

// EncodeCursor packs a (timestamp, id) position into an opaque base64 token.
func EncodeCursor(t time.Time, id uuid.UUID) string {
	b, _ := sonic.Marshal(cursor{T: t, ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor unpacks a token produced by EncodeCursor.
func DecodeCursor(s string) (time.Time, uuid.UUID, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}
	var c cursor
	if err := sonic.Unmarshal(b, &c); err != nil {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}
	return c.T, c.ID, nil
}
