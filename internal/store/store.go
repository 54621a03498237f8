package store

import (
	"errors"

	"lexdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultPageLimit uint64 = 10
	maxPageLimit     uint64 = 100
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// normalizePage applies the 1/10 defaults and caps the page size.
func normalizePage(page, limit uint64) (uint64, uint64, uint64) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return page, limit, (page - 1) * limit
}

func paginationFor(page, limit, total uint64) types.Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return types.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func searchPattern(term string) string {
	return "%" + term + "%"
}
