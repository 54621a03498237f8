package types

import "time"

// CaseDocument is file metadata for an attachment stored remotely under
// cases/{caseID}/. A row is only written after the remote upload
// succeeded; the reverse divergence (object without row) is tolerated
// and reclaimed by the orphan sweep.
type CaseDocument struct {
	ID            string    `db:"id" json:"id"`
	CaseID        string    `db:"case_id" json:"caseId"`
	AdvocateID    string    `db:"advocate_id" json:"advocateId"`
	FileName      string    `db:"file_name" json:"fileName"`
	FileSizeBytes int64     `db:"file_size_bytes" json:"fileSizeBytes"`
	MimeType      string    `db:"mime_type" json:"mimeType"`
	StorageKey    string    `db:"storage_key" json:"storageKey"`
	UploadedBy    string    `db:"uploaded_by" json:"uploadedBy"`
	UploadedAt    time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// Upload size ceilings, enforced before any remote write.
const (
	MaxCaseDocumentBytes = 10 << 20
	MaxProfileImageBytes = 2 << 20
)
