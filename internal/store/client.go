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

// ClientRepository serves the client-facing CRUD surface: clients are
// user rows holding the client role, scoped to their advocate's tenant.
type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func clientFilterConds(tenantID string, filter types.ClientFilter) sq.And {
	conds := sq.And{
		sq.Eq{"advocate_id": tenantID},
		hasRole(types.RoleClient),
	}

	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		conds = append(conds, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"phone": pattern},
		})
	}

	return conds
}

func (r *ClientRepository) Clients(ctx context.Context, tenantID string, filter types.ClientFilter) ([]*types.User, types.Pagination, error) {
	page, limit, offset := normalizePage(filter.Page, filter.Limit)
	conds := clientFilterConds(tenantID, filter)

	countQuery, countArgs, err := psql().
		Select("count(*)").
		From(userTableName).
		Where(conds).
		ToSql()
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to generate client count query: %w", err)
	}

	var total uint64
	if err := pgxscan.Get(ctx, r.pool, &total, countQuery, countArgs...); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count clients: %w", err)
	}

	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(conds).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to generate client list query: %w", err)
	}

	clients := make([]*types.User, 0)
	if err := pgxscan.Select(ctx, r.pool, &clients, query, args...); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to fetch clients: %w", err)
	}

	return clients, paginationFor(page, limit, total), nil
}

func (r *ClientRepository) Client(ctx context.Context, tenantID, clientID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.And{
			sq.Eq{"id": clientID, "advocate_id": tenantID},
			hasRole(types.RoleClient),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate client query: %w", err)
	}

	var client types.User
	err = pgxscan.Get(ctx, r.pool, &client, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}

	return &client, nil
}

func (r *ClientRepository) CreateClient(ctx context.Context, client *types.User) error {
	now := time.Now()
	if client.ID == "" {
		client.ID = utils.NanoID()
	}
	client.Roles = []types.Role{types.RoleClient}
	client.CreatedAt = now
	client.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(client)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create client query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

func (r *ClientRepository) UpdateClient(ctx context.Context, tenantID string, client *types.User) error {
	client.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(userTableName).
		SetMap(utils.StructToMap(client)).
		Where(sq.And{
			sq.Eq{"id": client.ID, "advocate_id": tenantID},
			hasRole(types.RoleClient),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update client query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrClientNotFound
	}

	return nil
}

func (r *ClientRepository) DeleteClient(ctx context.Context, tenantID, clientID string) error {
	query, args, err := psql().
		Delete(userTableName).
		Where(sq.And{
			sq.Eq{"id": clientID, "advocate_id": tenantID},
			hasRole(types.RoleClient),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete client query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrClientNotFound
	}

	return nil
}

// AllClients returns every client in the tenant for backup export.
func (r *ClientRepository) AllClients(ctx context.Context, tenantID string) ([]*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.And{
			sq.Eq{"advocate_id": tenantID},
			hasRole(types.RoleClient),
		}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate all clients query: %w", err)
	}

	clients := make([]*types.User, 0)
	if err := pgxscan.Select(ctx, r.pool, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch all clients: %w", err)
	}

	return clients, nil
}
