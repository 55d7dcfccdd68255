package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	players := filepath.Join(dir, "Players.txt")
	matches := filepath.Join(dir, "Matches.txt")
	require.NoError(t, os.WriteFile(players, []byte("APUTCP001,Ana Ruiz,ES,12,F,S001\n"), 0o644))
	require.NoError(t, os.WriteFile(matches, []byte(""), 0o644))

	uploader := NewMockUploader()
	b := New(uploader, "court-keeper")
	b.now = func() time.Time { return time.Date(2025, 3, 10, 18, 5, 0, 0, time.UTC) }

	results, err := b.Run(context.Background(), []string{players, filepath.Join(dir, "Sales.txt"), matches})
	require.NoError(t, err)
	require.Len(t, results, 2, "missing files are skipped")

	assert.Equal(t, "court-keeper/20250310T180500Z/Players.txt", results[0].Key)
	assert.Equal(t, int64(32), results[0].Size)
	assert.Equal(t, "court-keeper/20250310T180500Z/Matches.txt", results[1].Key)
	assert.Equal(t, "APUTCP001,Ana Ruiz,ES,12,F,S001\n", string(uploader.Objects[results[0].Key]))
	assert.Equal(t, 2, uploader.Keys())
}

func TestRun_UploadFailure(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Players.txt")
	require.NoError(t, os.WriteFile(file, []byte("x\n"), 0o644))

	uploader := NewMockUploader()
	uploader.UploadFunc = func(ctx context.Context, key, contentType string, body io.Reader) (*UploadResult, error) {
		return nil, errors.New("bucket gone")
	}

	_, err := New(uploader, "p").Run(context.Background(), []string{file})
	assert.ErrorContains(t, err, "bucket gone")
}
