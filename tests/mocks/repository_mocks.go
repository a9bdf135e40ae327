// Package mocks provides testify mocks for the repository and storage
// interfaces, used by the handler test suites.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/taxdesk/receipt-engine/internal/models"
)

// MockTransactionRepository implements repository.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

// Create creates a new transaction draft
func (m *MockTransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// GetByID retrieves a transaction draft by its ID
func (m *MockTransactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

// List retrieves transaction drafts with pagination
func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]models.TransactionListItem, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.TransactionListItem), args.Get(1).(int64), args.Error(2)
}

// Update updates a transaction draft's scalar fields
func (m *MockTransactionRepository) Update(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// Delete deletes a transaction draft by its ID
func (m *MockTransactionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// AddItems appends line items to a draft
func (m *MockTransactionRepository) AddItems(ctx context.Context, txnID uint, items []models.LineItem) error {
	args := m.Called(ctx, txnID, items)
	return args.Error(0)
}

// GetItem retrieves a single line item scoped to its draft
func (m *MockTransactionRepository) GetItem(ctx context.Context, txnID uint, itemID string) (*models.LineItem, error) {
	args := m.Called(ctx, txnID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LineItem), args.Error(1)
}

// SaveItem persists a single line item
func (m *MockTransactionRepository) SaveItem(ctx context.Context, item *models.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// SaveItems persists a batch of line items
func (m *MockTransactionRepository) SaveItems(ctx context.Context, items []models.LineItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// DeleteItem deletes a line item scoped to its draft
func (m *MockTransactionRepository) DeleteItem(ctx context.Context, txnID uint, itemID string) error {
	args := m.Called(ctx, txnID, itemID)
	return args.Error(0)
}

// MockEvidenceFileRepository implements repository.EvidenceFileRepository
type MockEvidenceFileRepository struct {
	mock.Mock
}

// Create creates a new evidence file record
func (m *MockEvidenceFileRepository) Create(ctx context.Context, file *models.EvidenceFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

// GetByID retrieves an evidence file by its ID
func (m *MockEvidenceFileRepository) GetByID(ctx context.Context, id uint) (*models.EvidenceFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EvidenceFile), args.Error(1)
}

// ListByTransaction retrieves all evidence files for a transaction draft
func (m *MockEvidenceFileRepository) ListByTransaction(ctx context.Context, txnID uint) ([]models.EvidenceFile, error) {
	args := m.Called(ctx, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EvidenceFile), args.Error(1)
}

// Delete deletes an evidence file record and its stored bytes
func (m *MockEvidenceFileRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
