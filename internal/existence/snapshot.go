package existence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
)

var (
	ErrInvalidPath = errors.New("invalid snapshot path")
	ErrNoSnapshot  = errors.New("snapshot file does not exist")
)

// SaveSnapshot writes the filter bits to path through a temp file and rename,
// so a crash mid-write never leaves a truncated snapshot behind.
func (f *Filter) SaveSnapshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return ErrInvalidPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)

	f.mu.RLock()
	n, err := f.bf.WriteTo(w)
	f.mu.RUnlock()
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), absPath); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	f.log.Info().Str("path", absPath).Int64("bytes", n).Msg("existence filter snapshot saved")
	return nil
}

// LoadSnapshot merges a saved filter into this one. The snapshot must have been
// built with the same capacity and hash count.
func (f *Filter) LoadSnapshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return ErrInvalidPath
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoSnapshot
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	loaded := &bloom.BloomFilter{}
	if _, err := loaded.ReadFrom(bufio.NewReader(file)); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if loaded.Cap() != f.bf.Cap() || loaded.K() != f.bf.K() {
		return fmt.Errorf("%w: snapshot m=%d k=%d, filter m=%d k=%d",
			ErrSnapshotMismatch, loaded.Cap(), loaded.K(), f.bf.Cap(), f.bf.K())
	}

	if err := f.bf.Merge(loaded); err != nil {
		return fmt.Errorf("failed to merge snapshot: %w", err)
	}

	f.log.Info().Str("path", path).Uint32("approximate_items", f.bf.ApproximatedSize()).Msg("existence filter snapshot loaded")
	return nil
}
