package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

// References answers "is this remote object still referenced by a live
// row" for the orphan sweep.
type References struct {
	pool *pgxpool.Pool
}

func NewReferences(pool *pgxpool.Pool) *References {
	return &References{pool: pool}
}

func (r *References) DocumentExistsByKey(ctx context.Context, storageKey string) (bool, error) {
	return r.keyReferenced(ctx, documentTableName, "storage_key", storageKey)
}

func (r *References) UserExistsByProfileKey(ctx context.Context, storageKey string) (bool, error) {
	return r.keyReferenced(ctx, userTableName, "profile_image_key", storageKey)
}

func (r *References) keyReferenced(ctx context.Context, table, column, key string) (bool, error) {
	query, args, err := psql().
		Select("count(*)").
		From(table).
		Where(sq.Eq{column: key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate reference lookup query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to look up reference: %w", err)
	}

	return count > 0, nil
}
