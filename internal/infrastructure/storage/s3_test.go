package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "", PublicURL("https://cdn.example.com", ""))
	assert.Equal(t, "https://cdn.example.com/users/a.jpg", PublicURL("https://cdn.example.com/", "/users/a.jpg"))
	assert.Equal(t, "https://other.example.com/x.png", PublicURL("https://cdn.example.com", "https://other.example.com/x.png"))
	assert.Equal(t, "/properties/b.jpg", PublicURL("", "properties/b.jpg"))
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store("", false, "k", "s", "roomz")
	assert.Error(t, err)
	_, err = NewS3Store("http://localhost:9000", false, "k", "s", " ")
	assert.Error(t, err)

	s, err := NewS3Store("http://localhost:9000", false, "k", "s", "roomz")
	require.NoError(t, err)
	assert.Error(t, s.Put(context.Background(), "/", strings.NewReader("x"), 1, "text/plain"))
}

func TestNoopStore(t *testing.T) {
	var s ObjectStore = NoopStore{}
	assert.ErrorIs(t, s.Put(context.Background(), "a", strings.NewReader("x"), 1, ""), ErrNotConfigured)
	assert.ErrorIs(t, s.Remove(context.Background(), "a"), ErrNotConfigured)
}
