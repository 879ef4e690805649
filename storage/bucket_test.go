package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFSBucket_UploadUpserts(t *testing.T) {
	root := t.TempDir()
	b, err := NewFSBucket(root, "avatars", "http://localhost:8080/media/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Upload(ctx, "profile-pics/7.png", strings.NewReader("first")))
	require.NoError(t, b.Upload(ctx, "profile-pics/7.png", strings.NewReader("second")))

	data, err := os.ReadFile(filepath.Join(root, "avatars", "profile-pics", "7.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "avatars", "profile-pics"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")

	assert.Equal(t, "http://localhost:8080/media/avatars/profile-pics/7.png", b.PublicURL("profile-pics/7.png"))
}

func TestFSBucket_RejectsBadKeys(t *testing.T) {
	b, err := NewFSBucket(t.TempDir(), "avatars", "http://x")
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.png", "a/../../b.png", "/abs.png", `dir\file.png`, "a//b.png"} {
		err := b.Upload(context.Background(), key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestFSBucket_CancelledContext(t *testing.T) {
	b, err := NewFSBucket(t.TempDir(), "avatars", "http://x")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Upload(ctx, "k.png", strings.NewReader("x")), context.Canceled)
}
