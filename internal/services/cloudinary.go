package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/beside-app/beside-backend/internal/models"
)

// PhotoStorage is the external binary object storage collaborator.
// Upload stores a file under folder/ownerID and returns the public URL plus
// the provider-side ID needed to delete it later.
type PhotoStorage interface {
	Upload(ctx context.Context, file multipart.File, folder, ownerID string) (*models.Photo, error)
	Delete(ctx context.Context, publicID string) error
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

// Upload sends the file to Cloudinary under folder/ownerID. The public ID is
// randomized so a replacement upload never collides with the object it is
// replacing.
func (s *CloudinaryService) Upload(ctx context.Context, file multipart.File, folder, ownerID string) (*models.Photo, error) {
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		Folder:       folder + "/" + ownerID,
		PublicID:     uuid.NewString(),
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return &models.Photo{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete removes a previously uploaded object by its public ID.
func (s *CloudinaryService) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}
	return nil
}
