package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/taxdesk/receipt-engine/internal/models"
	"github.com/taxdesk/receipt-engine/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EvidenceFileRepositoryTestSuite is the test suite for EvidenceFileRepository
type EvidenceFileRepositoryTestSuite struct {
	suite.Suite
	db      *gorm.DB
	store   storage.EvidenceStore
	repo    EvidenceFileRepository
	testTxn *models.Transaction
}

// SetupSuite runs once before all tests
func (s *EvidenceFileRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.Transaction{}, &models.LineItem{}, &models.EvidenceFile{})
	require.NoError(s.T(), err)

	store, err := storage.NewLocalStore(s.T().TempDir())
	require.NoError(s.T(), err)

	s.db = db
	s.store = store
	s.repo = NewEvidenceFileRepository(db, store)
}

// TearDownSuite runs once after all tests
func (s *EvidenceFileRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *EvidenceFileRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM evidence_files")
	s.db.Exec("DELETE FROM transactions")

	s.testTxn = &models.Transaction{Vendor: "Amazon"}
	err := s.db.Create(s.testTxn).Error
	require.NoError(s.T(), err)
}

// TestEvidenceFileRepositoryTestSuite runs the test suite
func TestEvidenceFileRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(EvidenceFileRepositoryTestSuite))
}

func (s *EvidenceFileRepositoryTestSuite) TestCreate_Success() {
	file := &models.EvidenceFile{
		TransactionID: s.testTxn.ID,
		Filename:      "receipt.pdf",
		ContentType:   "application/pdf",
		FilePath:      "ab/abc.pdf",
		SizeBytes:     1024,
		Source:        "upload",
	}

	err := s.repo.Create(context.Background(), file)

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), file.ID)
}

func (s *EvidenceFileRepositoryTestSuite) TestGetByID_Found() {
	file := &models.EvidenceFile{
		TransactionID: s.testTxn.ID,
		Filename:      "receipt.jpg",
		ContentType:   "image/jpeg",
		Source:        "email",
	}
	err := s.repo.Create(context.Background(), file)
	require.NoError(s.T(), err)

	result, err := s.repo.GetByID(context.Background(), file.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "receipt.jpg", result.Filename)
	assert.Equal(s.T(), "email", result.Source)
}

func (s *EvidenceFileRepositoryTestSuite) TestGetByID_NotFound() {
	result, err := s.repo.GetByID(context.Background(), 99999)

	assert.ErrorIs(s.T(), err, ErrNotFound)
	assert.Nil(s.T(), result)
}

func (s *EvidenceFileRepositoryTestSuite) TestListByTransaction_ReturnsFiles() {
	for _, name := range []string{"a.pdf", "b.png"} {
		file := &models.EvidenceFile{
			TransactionID: s.testTxn.ID,
			Filename:      name,
			Source:        "upload",
		}
		err := s.repo.Create(context.Background(), file)
		require.NoError(s.T(), err)
	}

	files, err := s.repo.ListByTransaction(context.Background(), s.testTxn.ID)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), files, 2)
}

func (s *EvidenceFileRepositoryTestSuite) TestListByTransaction_Empty() {
	files, err := s.repo.ListByTransaction(context.Background(), s.testTxn.ID)

	assert.NoError(s.T(), err)
	assert.Empty(s.T(), files)
}

func (s *EvidenceFileRepositoryTestSuite) TestDelete_RemovesRecordAndStoredBytes() {
	path, err := s.store.Save("receipt.pdf", strings.NewReader("pdf bytes"))
	require.NoError(s.T(), err)

	file := &models.EvidenceFile{
		TransactionID: s.testTxn.ID,
		Filename:      "receipt.pdf",
		FilePath:      path,
		Source:        "upload",
	}
	err = s.repo.Create(context.Background(), file)
	require.NoError(s.T(), err)

	err = s.repo.Delete(context.Background(), file.ID)
	assert.NoError(s.T(), err)

	_, err = s.repo.GetByID(context.Background(), file.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.store.Get(path)
	assert.ErrorIs(s.T(), err, storage.ErrFileNotFound)
}

func (s *EvidenceFileRepositoryTestSuite) TestDelete_NotFound() {
	err := s.repo.Delete(context.Background(), 99999)

	assert.ErrorIs(s.T(), err, ErrNotFound)
}
