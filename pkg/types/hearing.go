package types

import "time"

type HearingStatus string

const (
	HearingStatusScheduled HearingStatus = "scheduled"
	HearingStatusCompleted HearingStatus = "completed"
	HearingStatusAdjourned HearingStatus = "adjourned"
	HearingStatusCancelled HearingStatus = "cancelled"
)

// Hearing is a persisted, tenant-scoped court date tied to a case.
type Hearing struct {
	ID         string        `db:"id" json:"id"`
	AdvocateID string        `db:"advocate_id" json:"advocateId"`
	CaseID     string        `db:"case_id" json:"caseId"`
	Title      string        `db:"title" json:"title"`
	Date       time.Time     `db:"hearing_date" json:"date"`
	Location   *string       `db:"location" json:"location,omitempty"`
	Status     HearingStatus `db:"status" json:"status"`
	Notes      *string       `db:"notes" json:"notes,omitempty"`
	CreatedBy  string        `db:"created_by" json:"createdBy"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updatedAt"`
}
