package types

import "time"

// Pagination is returned alongside every list response.
type Pagination struct {
	Page  uint64 `json:"page"`
	Limit uint64 `json:"limit"`
	Total uint64 `json:"total"`
	Pages uint64 `json:"pages"`
}

type CaseFilter struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	CaseType string `form:"caseType"`
	Search   string `form:"search"`
	From     *time.Time
	To       *time.Time
	Page     uint64 `form:"page"`
	Limit    uint64 `form:"limit"`
}

type ClientFilter struct {
	Search string `form:"search"`
	Page   uint64 `form:"page"`
	Limit  uint64 `form:"limit"`
}

type HearingFilter struct {
	Status string `form:"status"`
	CaseID string `form:"caseId"`
	From   *time.Time
	To     *time.Time
	Page   uint64 `form:"page"`
	Limit  uint64 `form:"limit"`
}
