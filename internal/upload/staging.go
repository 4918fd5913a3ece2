package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stager writes uploaded files to a local staging directory under names that
// never collide, and tracks them in a Ledger until released.
type Stager struct {
	dir    string
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time
}

// NewStager creates the staging directory if needed. ledger may be nil.
func NewStager(dir string, ledger Ledger, logger *zap.Logger) (*Stager, error) {
	if dir == "" {
		return nil, errors.New("staging dir required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stager{dir: dir, ledger: ledger, logger: logger, now: time.Now}, nil
}

// Stage copies a multipart file into the staging area.
func (s *Stager) Stage(ctx context.Context, field string, fh *multipart.FileHeader) (*StagedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return s.StageReader(ctx, field, fh.Filename, src)
}

// StageReader copies r into a new staged file named after originalFilename.
func (s *Stager) StageReader(ctx context.Context, field, originalFilename string, r io.Reader) (*StagedFile, error) {
	stagedAt := s.now()
	base := sanitizeFilename(originalFilename)
	path := filepath.Join(s.dir, fmt.Sprintf("%d-%s-%s", stagedAt.UnixNano(), uuid.NewString(), shortenFilename(base)))

	// O_EXCL: a staged file is never overwritten, even if two names did collide.
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	size, copyErr := io.Copy(dst, r)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", errors.Join(copyErr, closeErr))
	}

	staged := &StagedFile{
		Field:            field,
		OriginalFilename: base,
		Extension:        strings.ToLower(strings.TrimPrefix(filepath.Ext(base), ".")),
		Path:             path,
		Size:             size,
		StagedAt:         stagedAt,
		stager:           s,
	}
	if s.ledger != nil {
		if err := s.ledger.Track(ctx, path, stagedAt); err != nil {
			s.logger.Warn("staging ledger track failed", zap.String("path", path), zap.Error(err))
		}
	}
	s.logger.Debug("file staged",
		zap.String("field", field),
		zap.String("path", path),
		zap.Int64("bytes", size))
	return staged, nil
}

// Sweep removes staged files older than before: first those still listed in
// the ledger, then any stray file in the staging directory. It returns the
// number of files removed.
func (s *Stager) Sweep(ctx context.Context, before time.Time) (int, error) {
	removed := 0
	var errs []error

	if s.ledger != nil {
		stale, err := s.ledger.Stale(ctx, before)
		if err != nil {
			errs = append(errs, fmt.Errorf("list stale: %w", err))
		}
		for _, path := range stale {
			if err := os.Remove(path); err == nil {
				removed++
			} else if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
				continue
			}
			if err := s.ledger.Forget(ctx, path); err != nil {
				errs = append(errs, err)
			}
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		errs = append(errs, fmt.Errorf("read staging dir: %w", err))
		return removed, errors.Join(errs...)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(before) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		} else if !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return removed, errors.Join(errs...)
}

// StagedFile is one accepted upload on local disk. It is owned by the request
// that produced it and must be released on every exit path.
type StagedFile struct {
	Field            string
	OriginalFilename string
	Extension        string
	Path             string
	Size             int64
	StagedAt         time.Time

	stager   *Stager
	once     sync.Once
	released atomic.Bool
}

// ReadAll returns the staged bytes.
func (f *StagedFile) ReadAll() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Release deletes the staged file and drops its ledger entry. Only the first
// call does any work; later calls return nil.
func (f *StagedFile) Release() error {
	var err error
	f.once.Do(func() {
		if rmErr := os.Remove(f.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = rmErr
		}
		if f.stager != nil && f.stager.ledger != nil {
			// The request context may already be cancelled; cleanup must still run.
			if fgErr := f.stager.ledger.Forget(context.Background(), f.Path); fgErr != nil {
				f.stager.logger.Warn("staging ledger forget failed", zap.String("path", f.Path), zap.Error(fgErr))
			}
		}
		f.released.Store(true)
	})
	return err
}

// Released reports whether Release has run.
func (f *StagedFile) Released() bool {
	return f.released.Load()
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

// shortenFilename keeps staged names within common filesystem limits.
func shortenFilename(name string) string {
	const limit = 120
	if len(name) <= limit {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	return name[:limit-len(ext)] + ext
}
