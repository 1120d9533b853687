package domain

import (
	"context"
	"io"
	"time"
)

// Upload field names and the number of files each accepts per batch.
const (
	DocumentResume               = "resume"
	DocumentCoverLetter          = "coverLetter"
	DocumentAcademicCertificates = "academicCertificates"
	DocumentIDCopy               = "idCopy"
	DocumentPortfolio            = "portfolio"
)

var DocumentFieldLimits = map[string]int{
	DocumentResume:               1,
	DocumentCoverLetter:          1,
	DocumentAcademicCertificates: 10,
	DocumentIDCopy:               1,
	DocumentPortfolio:            1,
}

// DocumentFields lists the upload fields in a stable order.
var DocumentFields = []string{
	DocumentResume,
	DocumentCoverLetter,
	DocumentAcademicCertificates,
	DocumentIDCopy,
	DocumentPortfolio,
}

type Document struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	FilePath     string    `json:"file_path"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// UploadFile is one file of a multipart batch, detached from the transport.
type UploadFile struct {
	Field       string
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FileStore persists uploaded file bodies under a flat name.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) error
	Delete(ctx context.Context, name string) error
}

type DocumentRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]Document, error)
	// ReplaceAll swaps the user's document set in one transaction, filling
	// the new rows' IDs, and returns the rows it removed.
	ReplaceAll(ctx context.Context, userID int64, docs []Document) ([]Document, error)
}

type DocumentUsecase interface {
	UploadBatch(ctx context.Context, userID int64, files []UploadFile) ([]Document, error)
	ListDocuments(ctx context.Context, userID int64) ([]Document, error)
}
