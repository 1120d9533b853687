package postgres

import (
	"context"
	"fmt"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/database"
)

const documentColumns = `id, user_id, document_type, file_name, file_path, uploaded_at`

type documentRepo struct {
	db database.Pool
}

func NewDocumentRepository(db database.Pool) domain.DocumentRepository {
	return &documentRepo{db: db}
}

func scanDocument(row interface{ Scan(dest ...any) error }, d *domain.Document) error {
	return row.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.FileName, &d.FilePath, &d.UploadedAt)
}

func listDocuments(ctx context.Context, q database.DB, userID int64) ([]domain.Document, error) {
	rows, err := q.Query(ctx, `SELECT `+documentColumns+` FROM user_documents WHERE user_id = $1 ORDER BY uploaded_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *documentRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Document, error) {
	return listDocuments(ctx, r.db, userID)
}

func (r *documentRepo) ReplaceAll(ctx context.Context, userID int64, docs []domain.Document) ([]domain.Document, error) {
	var prior []domain.Document
	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DB) error {
		var err error
		if prior, err = listDocuments(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_documents WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear documents: %w", err)
		}

		for i := range docs {
			docs[i].UserID = userID
			row := tx.QueryRow(ctx,
				`INSERT INTO user_documents (user_id, document_type, file_name, file_path)
				 VALUES ($1, $2, $3, $4) RETURNING `+documentColumns,
				userID, docs[i].DocumentType, docs[i].FileName, docs[i].FilePath,
			)
			if err := scanDocument(row, &docs[i]); err != nil {
				return fmt.Errorf("insert document: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prior, nil
}
