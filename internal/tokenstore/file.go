package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcoot/blogfront/internal/dependencies/clock"
)

// fileRecord is the on-disk format of a File store
type fileRecord struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// File persists the credential in a single file readable only by the owner
type File struct {
	path   string
	clock  clock.Clock
	logger *slog.Logger
}

// Ensure File implements Store
var _ Store = (*File)(nil)

// NewFile creates a File store at path
func NewFile(path string, clk clock.Clock, logger *slog.Logger) *File {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{path: path, clock: clk, logger: logger}
}

// DefaultFilePath returns ~/.blogctl/token, or a relative path without a home dir
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".blogctl", "token")
	}
	return filepath.Join(home, ".blogctl", "token")
}

// Path returns the file location
func (f *File) Path() string {
	return f.path
}

func (f *File) Set(_ context.Context, token string, ttl time.Duration) error {
	rec := fileRecord{Token: token}
	if ttl > 0 {
		rec.ExpiresAt = f.clock.Now().Add(ttl).UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	// Write then rename so a crash never leaves a half-written token
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

func (f *File) Get(ctx context.Context) (string, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("could not read token file",
				slog.String("path", f.path),
				slog.String("error", err.Error()))
		}
		return "", false
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Older files hold the bare token with no expiry
		rec = fileRecord{Token: strings.TrimSpace(string(data))}
	}

	if rec.Token == "" {
		return "", false
	}
	if clock.Expired(f.clock, rec.ExpiresAt) {
		_ = f.Clear(ctx)
		return "", false
	}
	return rec.Token, true
}

func (f *File) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
