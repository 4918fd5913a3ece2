package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/job-portal/internal/domain"
	"github.com/spec-kit/job-portal/internal/events"
	"github.com/spec-kit/job-portal/internal/storage"
	"github.com/spec-kit/job-portal/internal/upload"
	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

// Relocator moves one staged upload to durable storage.
type Relocator interface {
	Relocate(ctx context.Context, part *upload.StagedFile) (domain.StoredAsset, error)
}

// relocatedAsset pairs a stored asset with the field it was uploaded under.
type relocatedAsset struct {
	Field string
	Asset domain.StoredAsset
}

// relocateField relocates the part for field when one was uploaded. ok is
// false when the field is absent.
func relocateField(ctx context.Context, r Relocator, parts *upload.Parts, field string) (relocatedAsset, bool, error) {
	part, ok := parts.Get(field)
	if !ok {
		return relocatedAsset{}, false, nil
	}
	asset, err := r.Relocate(ctx, part)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return relocatedAsset{}, false, apperrors.NewInvalidFile(field)
		}
		return relocatedAsset{}, false, apperrors.NewRelocationError(err)
	}
	return relocatedAsset{Field: field, Asset: asset}, true, nil
}

// logOrphans records assets that were uploaded but whose owning record was
// never written. They are not deleted from the store.
func logOrphans(logger *zap.Logger, owner string, assets []relocatedAsset, cause error) {
	for _, a := range assets {
		logger.Warn("orphaned asset",
			zap.String("owner", owner),
			zap.String("field", a.Field),
			zap.String("url", a.Asset.SecureURL),
			zap.Error(cause))
	}
}

// publishAssets emits one asset_relocated event per asset. Publish failures
// are logged; the record change has already been committed.
func publishAssets(ctx context.Context, d events.Dispatcher, logger *zap.Logger, subjectID string, assets []relocatedAsset) {
	for _, a := range assets {
		publish(ctx, d, logger, events.New(events.EventAssetRelocated, subjectID, events.AssetRelocatedPayload{
			Field:     a.Field,
			SecureURL: a.Asset.SecureURL,
		}))
	}
}

func publish(ctx context.Context, d events.Dispatcher, logger *zap.Logger, event events.Event) {
	if d == nil {
		return
	}
	if err := d.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
