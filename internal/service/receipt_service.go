package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/repository/storage"
	"github.com/google/uuid"
)

const (
	MaxReceiptSize     = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth    = 50
	MinReceiptHeight   = 50
	ReceiptThumbWidth  = 200
	ReceiptDisplayWidth = 800
	receiptJPEGQuality = 85

	// receiptURLExpiry bounds how long a presigned receipt link stays valid
	receiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat        = errors.New("invalid format. Supported: JPEG, PNG")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// receiptVariants are the stored sizes of every receipt
var receiptVariants = []struct {
	name     string
	maxWidth int
}{
	{"thumb", ReceiptThumbWidth},
	{"display", ReceiptDisplayWidth},
	{"original", 0}, // 0 means keep original size
}

// ReceiptMetadata contains storage paths and presigned URLs for a receipt
type ReceiptMetadata struct {
	ExpenseID    string `json:"expenseId"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService processes and stores expense receipt images
type ReceiptService struct {
	expenseRepo domain.ExpenseRepository
	storage     storage.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(expenseRepo domain.ExpenseRepository, storage storage.ReceiptRepository) *ReceiptService {
	return &ReceiptService{expenseRepo: expenseRepo, storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the receipt image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// AttachReceipt validates ownership, processes the image, and stores all
// variants. An existing receipt for the expense is overwritten.
func (s *ReceiptService) AttachReceipt(ctx context.Context, companyID, expenseID uuid.UUID, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByIDAndCompany(companyID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.DeletedAt != nil {
		return nil, domain.ErrExpenseNotFound
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string)
	for _, variant := range receiptVariants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: receiptJPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode receipt: %w", err)
		}

		objectPath := receiptObjectPath(companyID, expenseID, variant.name)
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			s.cleanupVariants(ctx, paths)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		paths[variant.name] = objectPath
	}

	return s.presignMetadata(ctx, expenseID, paths)
}

// GetReceipt returns fresh presigned URLs for an expense's receipt variants
func (s *ReceiptService) GetReceipt(ctx context.Context, companyID, expenseID uuid.UUID) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	if _, err := s.expenseRepo.GetByIDAndCompany(companyID, expenseID); err != nil {
		return nil, err
	}

	paths := make(map[string]string)
	for _, variant := range receiptVariants {
		paths[variant.name] = receiptObjectPath(companyID, expenseID, variant.name)
	}
	return s.presignMetadata(ctx, expenseID, paths)
}

// RemoveReceipt deletes all stored variants of an expense's receipt
func (s *ReceiptService) RemoveReceipt(ctx context.Context, companyID, expenseID uuid.UUID) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}

	if _, err := s.expenseRepo.GetByIDAndCompany(companyID, expenseID); err != nil {
		return err
	}

	var lastErr error
	for _, variant := range receiptVariants {
		if err := s.storage.Delete(ctx, receiptObjectPath(companyID, expenseID, variant.name)); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// cleanupVariants removes variants already uploaded during a failed attach
func (s *ReceiptService) cleanupVariants(ctx context.Context, paths map[string]string) {
	for _, objectPath := range paths {
		_ = s.storage.Delete(ctx, objectPath)
	}
}

func (s *ReceiptService) presignMetadata(ctx context.Context, expenseID uuid.UUID, paths map[string]string) (*ReceiptMetadata, error) {
	meta := &ReceiptMetadata{ExpenseID: expenseID.String()}

	urls := make(map[string]string, len(paths))
	for name, objectPath := range paths {
		url, err := s.storage.GeneratePresignedURL(ctx, objectPath, receiptURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s variant: %w", name, err)
		}
		urls[name] = url
	}

	meta.ThumbnailURL = urls["thumb"]
	meta.DisplayURL = urls["display"]
	meta.OriginalURL = urls["original"]
	return meta, nil
}

// receiptObjectPath builds the storage key of a receipt variant
func receiptObjectPath(companyID, expenseID uuid.UUID, variant string) string {
	return fmt.Sprintf("%s/receipts/%s/receipt_%s.jpg", companyID, expenseID, variant)
}

// ReceiptContentType returns the content type for a receipt file extension
func ReceiptContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := allowedReceiptExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
