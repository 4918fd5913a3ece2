package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/spec-kit/job-portal/internal/config"
)

// CloudinaryStore uploads data URIs to Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore connects using CLOUDINARY_URL when set, else the individual credentials.
func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	case cfg.Configured():
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		return nil, errors.New("cloudinary credentials not configured")
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores dataURI; the resource type is detected by Cloudinary so that
// documents and images are both accepted.
func (s *CloudinaryStore) Upload(ctx context.Context, dataURI string) (UploadResult, error) {
	resp, err := s.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return UploadResult{}, err
	}
	if resp.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	return UploadResult{SecureURL: resp.SecureURL, PublicID: resp.PublicID}, nil
}
