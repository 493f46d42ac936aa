// Package images manages the directory where dream illustrations are saved.
package images

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/dreamjournal/pkg/utils"
)

const filenameLayout = "20060102_150405.000000"

// Dir is an image directory. The zero value is not usable; use NewDir.
type Dir struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewDir returns a Dir rooted at path. The directory is created lazily on
// the first Save.
func NewDir(path string, logger *slog.Logger) *Dir {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dir{path: path, logger: logger, now: time.Now}
}

// Path returns the directory root.
func (d *Dir) Path() string { return d.path }

// Save writes data under a fresh name and returns the file path. Names
// combine the timestamp down to the microsecond with a random suffix, so two
// saves in the same instant do not collide.
func (d *Dir) Save(data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image payload")
	}
	if err := utils.EnsureDir(d.path); err != nil {
		return "", err
	}
	if ext == "" {
		ext = ".png"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	stamp := strings.Replace(d.now().Format(filenameLayout), ".", "_", 1)
	name := fmt.Sprintf("dream_%s_%s%s", stamp, uuid.NewString()[:8], ext)
	path := filepath.Join(d.path, name)
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save image %s: %w", name, err)
	}
	return path, nil
}

// Remove deletes a local image. URLs, empty references and missing files are
// ignored, and failures are only logged.
func (d *Dir) Remove(ref string) {
	if ref == "" || isURL(ref) {
		return
	}
	if err := os.Remove(ref); err != nil && !errors.Is(err, fs.ErrNotExist) {
		d.logger.Warn("could not remove image", "path", ref, "error", err)
	}
}

// CleanupOrphans removes image files older than maxAge that no reference in
// keep points at. It returns the number removed; individual failures are
// logged and skipped.
func (d *Dir) CleanupOrphans(keep []string, maxAge time.Duration) int {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("could not list image directory", "dir", d.path, "error", err)
		}
		return 0
	}

	referenced := make(map[string]struct{}, len(keep))
	for _, ref := range keep {
		if ref == "" || isURL(ref) {
			continue
		}
		if abs, err := filepath.Abs(ref); err == nil {
			referenced[abs] = struct{}{}
		}
	}

	cutoff := d.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(d.path, e.Name())
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, ok := referenced[abs]; ok {
			continue
		}
		if err := os.Remove(path); err != nil {
			d.logger.Warn("could not remove orphan image", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		d.logger.Info("removed orphan images", "dir", d.path, "count", removed)
	}
	return removed
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}
