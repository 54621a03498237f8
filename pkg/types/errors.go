package types

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCaseNotFound     = errors.New("case not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrHearingNotFound  = errors.New("hearing not found")

	ErrDuplicateCaseNumber = errors.New("case number already exists in this tenant")
	ErrDuplicateEmail      = errors.New("email already registered")

	// Client deletion is blocked while any owned case is active,
	// pending, or on hold.
	ErrHasActiveCases = errors.New("client has cases in an active state")

	// Principal has neither an advocate linkage nor the advocate role,
	// so no tenant scope can be derived.
	ErrInvalidTenantConfig = errors.New("invalid tenant configuration")
)
