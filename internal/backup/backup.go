package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// New creates a Backup writing under prefix.
func New(uploader Uploader, prefix string) *Backup {
	return &Backup{uploader: uploader, prefix: prefix, now: time.Now}
}

// Key returns the object key for file in a run started at t.
func (b *Backup) Key(t time.Time, file string) string {
	return path.Join(b.prefix, t.UTC().Format("20060102T150405Z"), filepath.Base(file))
}

// Run uploads files concurrently. Missing files are skipped. The results
// follow the order of files.
func (b *Backup) Run(ctx context.Context, files []string) ([]UploadResult, error) {
	started := b.now()
	results := make([]*UploadResult, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					log.Debug("Skipping missing data file", "path", file)
					return nil
				}
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			key := b.Key(started, file)
			res, err := b.uploader.Upload(gCtx, key, "text/plain; charset=utf-8", bytes.NewReader(data))
			if err != nil {
				log.Error("Failed to back up data file", "error", err, "path", file, "key", key)
				return err
			}
			res.Size = int64(len(data))
			results[i] = res
			log.Info("Backed up data file", "path", file, "key", key, "bytes", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]UploadResult, 0, len(files))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}
