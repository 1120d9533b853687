package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"job-portal-backend/internal/domain"
	"job-portal-backend/internal/storage"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/logger"
	"job-portal-backend/pkg/security"
	"job-portal-backend/pkg/security/antivirus"

	"github.com/google/uuid"
)

// UploadPathPrefix is where stored files are served from.
const UploadPathPrefix = "/uploads/"

type DocumentConfig struct {
	MaxFileSize       int64
	ImageMaxDimension int
	// Scanner is optional; when set every file is scanned before it is stored.
	Scanner antivirus.Scanner
}

type documentUsecase struct {
	docRepo domain.DocumentRepository
	store   domain.FileStore
	cfg     DocumentConfig
}

func NewDocumentUsecase(docRepo domain.DocumentRepository, store domain.FileStore, cfg DocumentConfig) domain.DocumentUsecase {
	return &documentUsecase{docRepo: docRepo, store: store, cfg: cfg}
}

func (u *documentUsecase) ListDocuments(ctx context.Context, userID int64) ([]domain.Document, error) {
	return u.docRepo.ListByUser(ctx, userID)
}

// UploadBatch validates every file before anything is stored, so a rejected
// batch leaves both storage and the user's document set untouched.
func (u *documentUsecase) UploadBatch(ctx context.Context, userID int64, files []domain.UploadFile) ([]domain.Document, error) {
	if len(files) == 0 {
		return nil, apperror.UploadRejected("No files uploaded")
	}
	if err := u.checkBatch(files); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(files))
	stored := make([]string, 0, len(files))
	cleanup := func() {
		for _, name := range stored {
			if err := u.store.Delete(context.WithoutCancel(ctx), name); err != nil {
				logger.Log.Warn("Failed to remove stored upload", "file", name, "error", err)
			}
		}
	}

	for _, f := range files {
		name, err := u.storeFile(ctx, f)
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, name)
		docs = append(docs, domain.Document{
			UserID:       userID,
			DocumentType: f.Field,
			FileName:     f.FileName,
			FilePath:     UploadPathPrefix + name,
		})
	}

	prior, err := u.docRepo.ReplaceAll(ctx, userID, docs)
	if err != nil {
		cleanup()
		return nil, err
	}

	for _, d := range prior {
		name, ok := strings.CutPrefix(d.FilePath, UploadPathPrefix)
		if !ok {
			continue
		}
		if err := u.store.Delete(ctx, name); err != nil {
			logger.Log.Warn("Failed to remove replaced upload", "file", name, "error", err)
		}
	}

	logger.Log.Info("Documents uploaded", "user_id", userID, "count", len(docs), "replaced", len(prior))
	return docs, nil
}

func (u *documentUsecase) checkBatch(files []domain.UploadFile) error {
	counts := make(map[string]int, len(domain.DocumentFieldLimits))
	for _, f := range files {
		limit, ok := domain.DocumentFieldLimits[f.Field]
		if !ok {
			return apperror.UploadRejected("Unexpected field: " + f.Field)
		}
		counts[f.Field]++
		if counts[f.Field] > limit {
			return apperror.UploadRejected(fmt.Sprintf("Too many files for %s (max %d)", f.Field, limit))
		}
	}

	for _, f := range files {
		if f.Size > u.cfg.MaxFileSize {
			return apperror.UploadRejected(fmt.Sprintf("File %s exceeds the %d MB limit", f.FileName, u.cfg.MaxFileSize>>20))
		}

		head, err := readHead(f)
		if err != nil {
			return err
		}
		if res := security.ValidateFile(f.FileName, f.ContentType, head); !res.Valid {
			logger.Log.Info("Upload rejected", "field", f.Field, "file", f.FileName, "reason", res.Error)
			return apperror.UploadRejected("Invalid file type. Allowed: " + strings.Join(security.GetAllowedExtensions(), ", "))
		}
	}
	return nil
}

func readHead(f domain.UploadFile) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", f.FileName, err)
	}
	defer rc.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload %s: %w", f.FileName, err)
	}
	return head[:n], nil
}

func (u *documentUsecase) storeFile(ctx context.Context, f domain.UploadFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", f.FileName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, u.cfg.MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload %s: %w", f.FileName, err)
	}
	if int64(len(data)) > u.cfg.MaxFileSize {
		return "", apperror.UploadRejected(fmt.Sprintf("File %s exceeds the %d MB limit", f.FileName, u.cfg.MaxFileSize>>20))
	}

	if u.cfg.Scanner != nil {
		verdict, err := u.cfg.Scanner.Scan(ctx, bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("scan upload %s: %w", f.FileName, err)
		}
		if verdict.Infected {
			logger.Log.Warn("Upload rejected by malware scan", "field", f.Field, "file", f.FileName, "threat", verdict.Threat)
			return "", apperror.UploadRejected("File " + f.FileName + " was rejected by the malware scan")
		}
	}

	ext := strings.ToLower(filepath.Ext(f.FileName))
	if security.IsImageExtension(ext) {
		resized, ok, err := storage.Downscale(data, u.cfg.ImageMaxDimension)
		if errors.Is(err, storage.ErrImageTooLarge) {
			return "", apperror.UploadRejected("Image " + f.FileName + " has too many pixels")
		}
		if err != nil {
			return "", apperror.UploadRejected("Image " + f.FileName + " could not be decoded")
		}
		if ok {
			data = resized
		}
	}

	name := f.Field + "-" + uuid.NewString() + ext
	if err := u.store.Save(ctx, name, bytes.NewReader(data), f.ContentType); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return name, nil
}
