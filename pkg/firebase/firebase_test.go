package firebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/dw-media/avatars/42",
		PublicURL("dw-media", "avatars/42"))
	assert.Equal(t,
		"https://storage.googleapis.com/dw-media/avatars/a%20b",
		PublicURL("dw-media", "avatars/a b"))
}

func TestInitFirebaseRequiresCredentials(t *testing.T) {
	_, err := InitFirebase(context.Background(), "", "")
	require.Error(t, err)

	_, err = InitFirebase(context.Background(), "/does/not/exist.json", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
