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

const caseTableName = "lexdesk.cases"

var caseColumns = utils.StructTagValues(types.Case{})

type CaseRepository struct {
	pool *pgxpool.Pool
}

func NewCaseRepository(pool *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{pool: pool}
}

// caseFilterConds builds the WHERE clause for a tenant's case list.
// The tenant scope is always the first conjunct; filters only narrow it.
func caseFilterConds(tenantID string, filter types.CaseFilter) sq.And {
	conds := sq.And{sq.Eq{"advocate_id": tenantID}}

	if filter.Status != "" {
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	if filter.Priority != "" {
		conds = append(conds, sq.Eq{"priority": filter.Priority})
	}
	if filter.CaseType != "" {
		conds = append(conds, sq.Eq{"case_type": filter.CaseType})
	}
	if filter.From != nil {
		conds = append(conds, sq.GtOrEq{"registration_date": *filter.From})
	}
	if filter.To != nil {
		conds = append(conds, sq.LtOrEq{"registration_date": *filter.To})
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		conds = append(conds, sq.Or{
			sq.ILike{"case_number": pattern},
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"case_type": pattern},
		})
	}

	return conds
}

func (r *CaseRepository) Cases(ctx context.Context, tenantID string, filter types.CaseFilter) ([]*types.Case, types.Pagination, error) {
	page, limit, offset := normalizePage(filter.Page, filter.Limit)
	conds := caseFilterConds(tenantID, filter)

	countQuery, countArgs, err := psql().
		Select("count(*)").
		From(caseTableName).
		Where(conds).
		ToSql()
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to generate case count query: %w", err)
	}

	var total uint64
	if err := pgxscan.Get(ctx, r.pool, &total, countQuery, countArgs...); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count cases: %w", err)
	}

	query, args, err := psql().
		Select(caseColumns...).
		From(caseTableName).
		Where(conds).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to generate case list query: %w", err)
	}

	cases := make([]*types.Case, 0)
	if err := pgxscan.Select(ctx, r.pool, &cases, query, args...); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to fetch cases: %w", err)
	}

	return cases, paginationFor(page, limit, total), nil
}

func (r *CaseRepository) Case(ctx context.Context, tenantID, caseID string) (*types.Case, error) {
	query, args, err := psql().
		Select(caseColumns...).
		From(caseTableName).
		Where(sq.Eq{"id": caseID, "advocate_id": tenantID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate case query: %w", err)
	}

	var c types.Case
	err = pgxscan.Get(ctx, r.pool, &c, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}

	return &c, nil
}

func (r *CaseRepository) CasesByClient(ctx context.Context, tenantID, clientID string) ([]*types.Case, error) {
	query, args, err := psql().
		Select(caseColumns...).
		From(caseTableName).
		Where(sq.Eq{"advocate_id": tenantID, "client_id": clientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cases-by-client query: %w", err)
	}

	cases := make([]*types.Case, 0)
	if err := pgxscan.Select(ctx, r.pool, &cases, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch cases by client: %w", err)
	}

	return cases, nil
}

func (r *CaseRepository) CreateCase(ctx context.Context, c *types.Case) error {
	now := time.Now()
	if c.ID == "" {
		c.ID = utils.NanoID()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Notes == nil {
		c.Notes = []types.CaseNote{}
	}
	if c.Tasks == nil {
		c.Tasks = []types.CaseTask{}
	}

	query, args, err := psql().
		Insert(caseTableName).
		SetMap(utils.StructToMap(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create case query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateCaseNumber
		}
		return fmt.Errorf("failed to create case: %w", err)
	}

	return nil
}

func (r *CaseRepository) UpdateCase(ctx context.Context, tenantID string, c *types.Case) error {
	c.AdvocateID = tenantID
	c.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(caseTableName).
		SetMap(utils.StructToMap(c)).
		Where(sq.Eq{"id": c.ID, "advocate_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update case query for case %s: %w", c.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateCaseNumber
		}
		return fmt.Errorf("failed to update case: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCaseNotFound
	}

	return nil
}

func (r *CaseRepository) DeleteCase(ctx context.Context, tenantID, caseID string) error {
	query, args, err := psql().
		Delete(caseTableName).
		Where(sq.Eq{"id": caseID, "advocate_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete case query for case %s: %w", caseID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCaseNotFound
	}

	return nil
}

// DeleteCasesByClient removes every case the client owns within the
// tenant and returns the deleted case IDs so callers can purge the
// corresponding remote file prefixes.
func (r *CaseRepository) DeleteCasesByClient(ctx context.Context, tenantID, clientID string) ([]string, error) {
	query, args, err := psql().
		Delete(caseTableName).
		Where(sq.Eq{"advocate_id": tenantID, "client_id": clientID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delete cases-by-client query: %w", err)
	}

	ids := make([]string, 0)
	if err := pgxscan.Select(ctx, r.pool, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to delete cases by client: %w", err)
	}

	return ids, nil
}

// ActiveCaseCount counts the client's cases in a status that blocks
// client deletion (active, pending, on_hold).
func (r *CaseRepository) ActiveCaseCount(ctx context.Context, tenantID, clientID string) (int64, error) {
	blocking := []types.CaseStatus{
		types.CaseStatusActive,
		types.CaseStatusPending,
		types.CaseStatusOnHold,
	}

	query, args, err := psql().
		Select("count(*)").
		From(caseTableName).
		Where(sq.Eq{"advocate_id": tenantID, "client_id": clientID, "status": blocking}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate active case count query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count active cases: %w", err)
	}

	return count, nil
}

// AllCases returns every case in the tenant, unpaginated, for backup
// export.
func (r *CaseRepository) AllCases(ctx context.Context, tenantID string) ([]*types.Case, error) {
	query, args, err := psql().
		Select(caseColumns...).
		From(caseTableName).
		Where(sq.Eq{"advocate_id": tenantID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate all cases query: %w", err)
	}

	cases := make([]*types.Case, 0)
	if err := pgxscan.Select(ctx, r.pool, &cases, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch all cases: %w", err)
	}

	return cases, nil
}

func (r *CaseRepository) DeleteAllCases(ctx context.Context, tenantID string) error {
	query, args, err := psql().
		Delete(caseTableName).
		Where(sq.Eq{"advocate_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete all cases query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete tenant cases")
}

// CreateCases bulk-inserts case rows for backup restore. Plain multi-row
// insert, no ON CONFLICT: rows are written exactly as given.
func (r *CaseRepository) CreateCases(ctx context.Context, cases []*types.Case) error {
	if len(cases) == 0 {
		return nil
	}

	builder := psql().Insert(caseTableName).Columns(caseColumns...)
	for _, c := range cases {
		m := utils.StructToMap(c)
		values := make([]any, 0, len(caseColumns))
		for _, col := range caseColumns {
			values = append(values, m[col])
		}
		builder = builder.Values(values...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate bulk case insert query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to bulk insert cases")
}
