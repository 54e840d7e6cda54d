package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/mediahost-backend/internal/logger"
)

// AssetTypeImages is the route type that enables the transform branch; every
// other type is always served verbatim.
const AssetTypeImages = "images"

// Store serves originals and lazily materialized image variants from a
// single flat uploads directory. Originals are named <assetId>.<ext>;
// variants are owned by the store and named by Transform.Key. Variant files
// are published atomically (temp file + rename), so a concurrent reader can
// never observe a partial write, and concurrent misses for one key are
// collapsed through a single-flight group.
type Store struct {
	dir        string
	log        *logger.Logger
	transcoder Transcoder
	group      singleflight.Group
}

func NewStore(dir string, baseLog *logger.Logger, transcoder Transcoder) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir %s: %w", dir, err)
	}
	return &Store{
		dir:        dir,
		log:        baseLog.With("service", "MediaStore"),
		transcoder: transcoder,
	}, nil
}

// FetchRequest carries the raw inbound retrieval parameters. Format, Quality
// and Width are the unparsed query values; all empty means the caller wants
// the original bytes.
type FetchRequest struct {
	AssetType string
	Filename  string
	Format    string
	Quality   string
	Width     string
}

func (r FetchRequest) wantsTransform() bool {
	return r.AssetType == AssetTypeImages && (r.Format != "" || r.Quality != "" || r.Width != "")
}

// Result is a ready-to-stream response body. The caller owns Reader and must
// close it.
type Result struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
}

// Fetch validates the request, then serves the original directly or resolves
// the variant cache: hit streams the cached file, miss transcodes the
// original, publishes it under the variant key and streams the buffer.
func (s *Store) Fetch(ctx context.Context, req FetchRequest) (*Result, error) {
	if err := validateFilename(req.Filename); err != nil {
		return nil, err
	}

	originalPath := filepath.Join(s.dir, req.Filename)
	info, err := os.Stat(originalPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", req.Filename, err)
	}

	ext := filepath.Ext(req.Filename)
	if !req.wantsTransform() {
		f, err := os.Open(originalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", req.Filename, err)
		}
		return &Result{Reader: f, Size: info.Size(), ContentType: MIMEForExtension(ext)}, nil
	}

	t, err := ParseTransform(req.Format, req.Quality, req.Width, ext)
	if err != nil {
		return nil, err
	}

	assetID := strings.TrimSuffix(req.Filename, ext)
	key := t.Key(assetID)
	variantPath := filepath.Join(s.dir, key)

	if vi, statErr := os.Stat(variantPath); statErr == nil {
		vf, openErr := os.Open(variantPath)
		if openErr == nil {
			return &Result{Reader: vf, Size: vi.Size(), ContentType: t.Format.MIME()}, nil
		}
		if !errors.Is(openErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to open cached variant %s: %w", key, openErr)
		}
		// Deleted between stat and open; fall through and regenerate.
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// The flight is shared by every concurrent waiter and its output is
		// published to disk, so it must not die with whichever request
		// happened to start it.
		return s.generateVariant(context.WithoutCancel(ctx), originalPath, variantPath, t)
	})
	if err != nil {
		return nil, err
	}
	buf := v.([]byte)
	s.log.Debug("Serving generated variant", "key", key, "bytes", len(buf), "shared", shared)
	return &Result{
		Reader:      io.NopCloser(bytes.NewReader(buf)),
		Size:        int64(len(buf)),
		ContentType: t.Format.MIME(),
	}, nil
}

func (s *Store) generateVariant(ctx context.Context, originalPath, variantPath string, t Transform) ([]byte, error) {
	src, err := os.ReadFile(originalPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read original: %w", err)
	}

	out, err := s.transcoder.Transform(ctx, src, t)
	if err != nil {
		return nil, err
	}

	if err := s.publish(variantPath, out); err != nil {
		return nil, err
	}
	return out, nil
}

// publish writes data next to its destination and renames it into place, so
// a crash mid-write leaves at worst an orphaned temp file.
func (s *Store) publish(dst string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".variant-*")
	if err != nil {
		return fmt.Errorf("failed to create temp variant file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write variant: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close variant temp file: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish variant: %w", err)
	}
	return nil
}

// SaveOriginal writes an uploaded original into the store under
// <assetID><ext> and returns the number of bytes written.
func (s *Store) SaveOriginal(filename string, r io.Reader) (int64, error) {
	if err := validateFilename(filename); err != nil {
		return 0, err
	}
	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", filename, err)
	}
	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return 0, fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", filename, err)
	}
	return n, nil
}

// OriginalPath resolves the on-disk path for an original, or ErrNotFound.
func (s *Store) OriginalPath(assetID, ext string) (string, error) {
	filename := assetID + ext
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	return path, nil
}

// RemoveOriginal deletes an original file. Missing files are not an error so
// deletion stays idempotent.
func (s *Store) RemoveOriginal(filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", filename, err)
	}
	return nil
}

// PurgeVariants removes every cached variant belonging to an asset, matched
// by the <assetID>_ filename prefix, and returns how many were removed.
// Called by the deletion workflow after the original is gone.
func (s *Store) PurgeVariants(assetID string) (int, error) {
	if err := validateFilename(assetID); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list uploads dir: %w", err)
	}
	prefix := assetID + "_"
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to remove variant %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// validateFilename rejects anything that could walk out of the uploads
// directory. The name is a single path component: no separators, no parent
// references.
func validateFilename(name string) error {
	if name == "" || name == "." {
		return ErrInvalidIdentifier
	}
	if strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, 0) {
		return ErrInvalidIdentifier
	}
	return nil
}
