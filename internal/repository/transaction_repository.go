package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/taxdesk/receipt-engine/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for transaction draft data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]models.TransactionListItem, int64, error)
	Update(ctx context.Context, txn *models.Transaction) error
	Delete(ctx context.Context, id uint) error

	AddItems(ctx context.Context, txnID uint, items []models.LineItem) error
	GetItem(ctx context.Context, txnID uint, itemID string) (*models.LineItem, error)
	SaveItem(ctx context.Context, item *models.LineItem) error
	SaveItems(ctx context.Context, items []models.LineItem) error
	DeleteItem(ctx context.Context, txnID uint, itemID string) error
}

// transactionRepository implements TransactionRepository using GORM
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction draft
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	result := r.db.WithContext(ctx).Create(txn)
	if result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a transaction draft with its line items and evidence files
func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	result := r.db.WithContext(ctx).Preload("Items").Preload("EvidenceFiles").First(&txn, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", result.Error)
	}
	return &txn, nil
}

// List retrieves transaction drafts with pagination, newest first
func (r *transactionRepository) List(ctx context.Context, limit, offset int) ([]models.TransactionListItem, int64, error) {
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var results []models.TransactionListItem

	query := `
		SELECT
			t.id,
			t.date,
			t.vendor,
			t.amount,
			t.currency,
			t.category,
			t.payment_method,
			t.created_at,
			COALESCE((SELECT COUNT(*) FROM line_items i WHERE i.transaction_id = t.id), 0) as item_count
		FROM transactions t
		ORDER BY t.created_at DESC
		LIMIT ? OFFSET ?
	`

	if err := r.db.WithContext(ctx).Raw(query, limit, offset).Scan(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return results, total, nil
}

// Update persists all scalar fields of a transaction draft
func (r *transactionRepository) Update(ctx context.Context, txn *models.Transaction) error {
	result := r.db.WithContext(ctx).Omit("Items", "EvidenceFiles").Save(txn)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	return nil
}

// Delete deletes a transaction draft (cascade deletes items and evidence files)
func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddItems appends line items to a draft in a single transaction
func (r *transactionRepository) AddItems(ctx context.Context, txnID uint, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			items[i].TransactionID = txnID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create line item: %w", err)
			}
		}
		return nil
	})
}

// GetItem retrieves a single line item scoped to its draft
func (r *transactionRepository) GetItem(ctx context.Context, txnID uint, itemID string) (*models.LineItem, error) {
	var item models.LineItem
	result := r.db.WithContext(ctx).Where("transaction_id = ? AND id = ?", txnID, itemID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get line item: %w", result.Error)
	}
	return &item, nil
}

// SaveItem persists a single line item
func (r *transactionRepository) SaveItem(ctx context.Context, item *models.LineItem) error {
	result := r.db.WithContext(ctx).Save(item)
	if result.Error != nil {
		return fmt.Errorf("failed to save line item: %w", result.Error)
	}
	return nil
}

// SaveItems persists a batch of line items in a single transaction
func (r *transactionRepository) SaveItems(ctx context.Context, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := tx.Save(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to save line item: %w", err)
			}
		}
		return nil
	})
}

// DeleteItem deletes a single line item scoped to its draft
func (r *transactionRepository) DeleteItem(ctx context.Context, txnID uint, itemID string) error {
	result := r.db.WithContext(ctx).Where("transaction_id = ? AND id = ?", txnID, itemID).Delete(&models.LineItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete line item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
