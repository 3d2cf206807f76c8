package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftforge/backend/config"
	"github.com/liftforge/backend/internal/models"
)

// MediaService stores progress photos in S3 and records them in the
// database.
type MediaService struct {
	db *gorm.DB
	s3 *config.S3Config
}

// NewMediaService creates a new MediaService instance
func NewMediaService(db *gorm.DB, s3cfg *config.S3Config) *MediaService {
	return &MediaService{db: db, s3: s3cfg}
}

// UploadProgressPhoto streams the photo to S3 under a per-user key and
// records the row. The stored URL is a presigned link valid for a week.
func (m *MediaService) UploadProgressPhoto(ctx context.Context, userID uuid.UUID, body io.Reader, contentType, notes string) (*models.ProgressPhoto, error) {
	key := fmt.Sprintf("progress/%s/%s", userID, uuid.New())

	_, err := m.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.s3.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	url, err := m.s3.GeneratePresignedURL(ctx, key, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to presign photo URL: %w", err)
	}

	photo := models.ProgressPhoto{
		ID:     uuid.New(),
		UserID: userID,
		URL:    url,
		Notes:  notes,
	}
	if err := m.db.WithContext(ctx).Create(&photo).Error; err != nil {
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}
	return &photo, nil
}
