package storage

import (
	"context"
	"fmt"
	"io"

	"transylvania/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const roomImageFolder = "transylvania/rooms"

// StorageService handles media uploads for the room catalogue.
type StorageService interface {
	// UploadRoomImage stores an image for a room and returns its public URL.
	UploadRoomImage(ctx context.Context, file io.Reader, roomID int) (string, error)
	// DeleteImage removes a previously uploaded image by public ID.
	DeleteImage(ctx context.Context, publicID string) error
}

// CloudinaryStorage implements StorageService against Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds the storage service from the loaded app config.
func NewCloudinaryStorage() (*CloudinaryStorage, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

func (s *CloudinaryStorage) UploadRoomImage(ctx context.Context, file io.Reader, roomID int) (string, error) {
	overwrite := true
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:    roomImageFolder,
		PublicID:  fmt.Sprintf("room-%d", roomID),
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("upload room %d image: %w", roomID, err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload room %d image: no URL returned", roomID)
	}
	return result.SecureURL, nil
}

func (s *CloudinaryStorage) DeleteImage(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("delete image %s: %w", publicID, err)
	}
	return nil
}
