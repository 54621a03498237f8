package store

import (
	"context"
	"fmt"
	"time"

	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentTableName = "lexdesk.case_documents"

var documentColumns = utils.StructTagValues(types.CaseDocument{})

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Document(ctx context.Context, tenantID, documentID string) (*types.CaseDocument, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"id": documentID, "advocate_id": tenantID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document query: %w", err)
	}

	var doc types.CaseDocument
	err = pgxscan.Get(ctx, r.pool, &doc, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	return &doc, nil
}

func (r *DocumentRepository) DocumentsByCase(ctx context.Context, tenantID, caseID string) ([]*types.CaseDocument, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"advocate_id": tenantID, "case_id": caseID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate documents-by-case query: %w", err)
	}

	docs := make([]*types.CaseDocument, 0)
	if err := pgxscan.Select(ctx, r.pool, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch case documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *types.CaseDocument) error {
	if doc.ID == "" {
		doc.ID = utils.NanoID()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}

	query, args, err := psql().
		Insert(documentTableName).
		SetMap(utils.StructToMap(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create document query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create document")
}

func (r *DocumentRepository) DeleteDocument(ctx context.Context, tenantID, documentID string) error {
	query, args, err := psql().
		Delete(documentTableName).
		Where(sq.Eq{"id": documentID, "advocate_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete document query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDocumentNotFound
	}

	return nil
}

// ExistsByStorageKey reports whether any document row references the
// given remote object key. Used by the orphan sweep.
func (r *DocumentRepository) ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error) {
	query, args, err := psql().
		Select("count(*)").
		From(documentTableName).
		Where(sq.Eq{"storage_key": storageKey}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate storage key lookup query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to look up storage key: %w", err)
	}

	return count > 0, nil
}
