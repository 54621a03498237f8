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

const hearingTableName = "lexdesk.hearings"

var hearingColumns = utils.StructTagValues(types.Hearing{})

// HearingRepository persists hearings per tenant. Hearings are a real
// table, not in-process state: they must survive restarts and stay
// consistent across instances.
type HearingRepository struct {
	pool *pgxpool.Pool
}

func NewHearingRepository(pool *pgxpool.Pool) *HearingRepository {
	return &HearingRepository{pool: pool}
}

func hearingFilterConds(tenantID string, filter types.HearingFilter) sq.And {
	conds := sq.And{sq.Eq{"advocate_id": tenantID}}

	if filter.Status != "" {
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	if filter.CaseID != "" {
		conds = append(conds, sq.Eq{"case_id": filter.CaseID})
	}
	if filter.From != nil {
		conds = append(conds, sq.GtOrEq{"hearing_date": *filter.From})
	}
	if filter.To != nil {
		conds = append(conds, sq.LtOrEq{"hearing_date": *filter.To})
	}

	return conds
}

func (r *HearingRepository) Hearings(ctx context.Context, tenantID string, filter types.HearingFilter) ([]*types.Hearing, types.Pagination, error) {
	page, limit, offset := normalizePage(filter.Page, filter.Limit)
	conds := hearingFilterConds(tenantID, filter)

	countQuery, countArgs, err := psql().
		Select("count(*)").
		From(hearingTableName).
		Where(conds).
		ToSql()
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to generate hearing count query: %w", err)
	}

	var total uint64
	if err := pgxscan.Get(ctx, r.pool, &total, countQuery, countArgs...); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count hearings: %w", err)
	}

	query, args, err := psql().
		Select(hearingColumns...).
		From(hearingTableName).
		Where(conds).
		OrderBy("hearing_date ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to generate hearing list query: %w", err)
	}

	hearings := make([]*types.Hearing, 0)
	if err := pgxscan.Select(ctx, r.pool, &hearings, query, args...); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to fetch hearings: %w", err)
	}

	return hearings, paginationFor(page, limit, total), nil
}

func (r *HearingRepository) Hearing(ctx context.Context, tenantID, hearingID string) (*types.Hearing, error) {
	query, args, err := psql().
		Select(hearingColumns...).
		From(hearingTableName).
		Where(sq.Eq{"id": hearingID, "advocate_id": tenantID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate hearing query: %w", err)
	}

	var h types.Hearing
	err = pgxscan.Get(ctx, r.pool, &h, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrHearingNotFound
		}
		return nil, fmt.Errorf("failed to fetch hearing: %w", err)
	}

	return &h, nil
}

func (r *HearingRepository) CreateHearing(ctx context.Context, h *types.Hearing) error {
	now := time.Now()
	if h.ID == "" {
		h.ID = utils.NanoID()
	}
	h.CreatedAt = now
	h.UpdatedAt = now

	query, args, err := psql().
		Insert(hearingTableName).
		SetMap(utils.StructToMap(h)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create hearing query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create hearing")
}

func (r *HearingRepository) UpdateHearing(ctx context.Context, tenantID string, h *types.Hearing) error {
	h.AdvocateID = tenantID
	h.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(hearingTableName).
		SetMap(utils.StructToMap(h)).
		Where(sq.Eq{"id": h.ID, "advocate_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update hearing query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update hearing: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrHearingNotFound
	}

	return nil
}

func (r *HearingRepository) DeleteHearing(ctx context.Context, tenantID, hearingID string) error {
	query, args, err := psql().
		Delete(hearingTableName).
		Where(sq.Eq{"id": hearingID, "advocate_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete hearing query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete hearing: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrHearingNotFound
	}

	return nil
}

func (r *HearingRepository) AllHearings(ctx context.Context, tenantID string) ([]*types.Hearing, error) {
	query, args, err := psql().
		Select(hearingColumns...).
		From(hearingTableName).
		Where(sq.Eq{"advocate_id": tenantID}).
		OrderBy("hearing_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate all hearings query: %w", err)
	}

	hearings := make([]*types.Hearing, 0)
	if err := pgxscan.Select(ctx, r.pool, &hearings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch all hearings: %w", err)
	}

	return hearings, nil
}

func (r *HearingRepository) DeleteAllHearings(ctx context.Context, tenantID string) error {
	query, args, err := psql().
		Delete(hearingTableName).
		Where(sq.Eq{"advocate_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete all hearings query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete tenant hearings")
}

func (r *HearingRepository) CreateHearings(ctx context.Context, hearings []*types.Hearing) error {
	if len(hearings) == 0 {
		return nil
	}

	builder := psql().Insert(hearingTableName).Columns(hearingColumns...)
	for _, h := range hearings {
		m := utils.StructToMap(h)
		values := make([]any, 0, len(hearingColumns))
		for _, col := range hearingColumns {
			values = append(values, m[col])
		}
		builder = builder.Values(values...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate bulk hearing insert query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to bulk insert hearings")
}
