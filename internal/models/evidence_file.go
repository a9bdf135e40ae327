package models

// EvidenceFile is a stored piece of purchase evidence: an uploaded receipt
// image or PDF, or an attachment recovered from an ingested email. The
// decoded bytes live on disk at FilePath; only metadata is kept here.
type EvidenceFile struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TransactionID uint   `gorm:"not null;index" json:"transaction_id"`
	Filename      string `gorm:"size:255" json:"filename"`
	ContentType   string `gorm:"size:100" json:"content_type"`
	FilePath      string `gorm:"size:500" json:"file_path"`
	SizeBytes     int64  `json:"size_bytes"`
	Source        string `gorm:"size:20" json:"source"` // "upload" or "email"

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for EvidenceFile
func (EvidenceFile) TableName() string {
	return "evidence_files"
}
