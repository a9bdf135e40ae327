package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/taxdesk/receipt-engine/internal/models"
	"github.com/taxdesk/receipt-engine/internal/storage"
	"gorm.io/gorm"
)

// EvidenceFileRepository defines the interface for evidence file data access
type EvidenceFileRepository interface {
	Create(ctx context.Context, file *models.EvidenceFile) error
	GetByID(ctx context.Context, id uint) (*models.EvidenceFile, error)
	ListByTransaction(ctx context.Context, txnID uint) ([]models.EvidenceFile, error)
	Delete(ctx context.Context, id uint) error
}

// evidenceFileRepository implements EvidenceFileRepository using GORM
type evidenceFileRepository struct {
	db    *gorm.DB
	store storage.EvidenceStore
}

// NewEvidenceFileRepository creates a new EvidenceFileRepository instance
func NewEvidenceFileRepository(db *gorm.DB, store storage.EvidenceStore) EvidenceFileRepository {
	return &evidenceFileRepository{
		db:    db,
		store: store,
	}
}

// Create creates a new evidence file record
func (r *evidenceFileRepository) Create(ctx context.Context, file *models.EvidenceFile) error {
	result := r.db.WithContext(ctx).Create(file)
	if result.Error != nil {
		return fmt.Errorf("failed to create evidence file: %w", result.Error)
	}
	return nil
}

// GetByID retrieves an evidence file by its ID
func (r *evidenceFileRepository) GetByID(ctx context.Context, id uint) (*models.EvidenceFile, error) {
	var file models.EvidenceFile
	result := r.db.WithContext(ctx).First(&file, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evidence file by ID: %w", result.Error)
	}
	return &file, nil
}

// ListByTransaction retrieves all evidence files for a transaction draft
func (r *evidenceFileRepository) ListByTransaction(ctx context.Context, txnID uint) ([]models.EvidenceFile, error) {
	var files []models.EvidenceFile
	result := r.db.WithContext(ctx).Where("transaction_id = ?", txnID).Find(&files)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list evidence files: %w", result.Error)
	}
	return files, nil
}

// Delete deletes an evidence file record and removes the stored bytes
func (r *evidenceFileRepository) Delete(ctx context.Context, id uint) error {
	file, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&models.EvidenceFile{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete evidence file: %w", result.Error)
	}

	// Stored bytes may already be gone; the record removal is what matters
	if file.FilePath != "" && r.store != nil {
		_ = r.store.Delete(file.FilePath)
	}

	return nil
}
