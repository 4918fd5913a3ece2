// Package storage moves staged uploads to durable object storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/job-portal/internal/domain"
	"github.com/spec-kit/job-portal/internal/upload"
)

// ErrEmptyFile is returned for a staged file with no content.
var ErrEmptyFile = errors.New("empty file")

// UploadResult is what the object store reports for a stored object.
type UploadResult struct {
	SecureURL string
	PublicID  string
}

// ObjectStore accepts a data URI and returns a permanent reference to it.
type ObjectStore interface {
	Upload(ctx context.Context, dataURI string) (UploadResult, error)
}

// RelocationError reports which step of a relocation failed.
type RelocationError struct {
	Field string
	Op    string
	Err   error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("relocate %s: %s: %v", e.Field, e.Op, e.Err)
}

func (e *RelocationError) Unwrap() error { return e.Err }

// Relocator encodes staged files and uploads them to the object store.
type Relocator struct {
	store    ObjectStore
	logger   *zap.Logger
	observer func(field string, err error)
}

// NewRelocator builds a relocator over store.
func NewRelocator(store ObjectStore, logger *zap.Logger) *Relocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relocator{store: store, logger: logger}
}

// OnRelocate registers a callback invoked after every relocation attempt.
func (r *Relocator) OnRelocate(fn func(field string, err error)) {
	r.observer = fn
}

// Relocate uploads part exactly once and returns the stored asset. The staged
// file is deleted before Relocate returns, whether or not the upload worked.
// There is no retry: the store call is not known to be idempotent.
func (r *Relocator) Relocate(ctx context.Context, part *upload.StagedFile) (asset domain.StoredAsset, err error) {
	defer func() {
		if relErr := part.Release(); relErr != nil {
			r.logger.Warn("staged file cleanup failed", zap.String("path", part.Path), zap.Error(relErr))
		}
		if r.observer != nil {
			r.observer(part.Field, err)
		}
	}()

	data, err := part.ReadAll()
	if err != nil {
		return domain.StoredAsset{}, &RelocationError{Field: part.Field, Op: "read", Err: err}
	}
	if len(data) == 0 {
		return domain.StoredAsset{}, &RelocationError{Field: part.Field, Op: "read", Err: ErrEmptyFile}
	}

	uri := DataURI(ContentTag(part.Extension), data)
	result, err := r.store.Upload(ctx, uri)
	if err != nil {
		return domain.StoredAsset{}, &RelocationError{Field: part.Field, Op: "upload", Err: err}
	}
	if result.SecureURL == "" {
		return domain.StoredAsset{}, &RelocationError{Field: part.Field, Op: "upload", Err: errors.New("store returned no url")}
	}

	r.logger.Info("asset relocated",
		zap.String("field", part.Field),
		zap.Int("bytes", len(data)),
		zap.String("url", result.SecureURL))
	return domain.StoredAsset{SecureURL: result.SecureURL, OriginalFilename: part.OriginalFilename}, nil
}
