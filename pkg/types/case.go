package types

import "time"

type CaseStatus string

const (
	CaseStatusActive  CaseStatus = "active"
	CaseStatusPending CaseStatus = "pending"
	CaseStatusOnHold  CaseStatus = "on_hold"
	CaseStatusClosed  CaseStatus = "closed"
)

// BlocksClientDelete reports whether a case in this status prevents
// deletion of its owning client.
func (s CaseStatus) BlocksClientDelete() bool {
	switch s {
	case CaseStatusActive, CaseStatusPending, CaseStatusOnHold:
		return true
	}
	return false
}

type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
	CasePriorityUrgent CasePriority = "urgent"
)

// Case is owned by exactly one tenant (AdvocateID) and one client.
// Notes and tasks ride along as jsonb collections; documents live in
// their own table so cleanup can query them by storage key.
type Case struct {
	ID               string       `db:"id" json:"id"`
	AdvocateID       string       `db:"advocate_id" json:"advocateId"`
	ClientID         string       `db:"client_id" json:"clientId"`
	CaseNumber       string       `db:"case_number" json:"caseNumber"`
	Title            string       `db:"title" json:"title"`
	Description      *string      `db:"description" json:"description,omitempty"`
	CaseType         string       `db:"case_type" json:"caseType"`
	Court            *string      `db:"court" json:"court,omitempty"`
	Judge            *string      `db:"judge" json:"judge,omitempty"`
	OpposingParty    *string      `db:"opposing_party" json:"opposingParty,omitempty"`
	Status           CaseStatus   `db:"status" json:"status"`
	Priority         CasePriority `db:"priority" json:"priority"`
	RegistrationDate time.Time    `db:"registration_date" json:"registrationDate"`
	NextHearingDate  *time.Time   `db:"next_hearing_date" json:"nextHearingDate,omitempty"`
	Notes            []CaseNote   `db:"notes" json:"notes"` // jsonb
	Tasks            []CaseTask   `db:"tasks" json:"tasks"` // jsonb
	CreatedBy        string       `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updatedAt"`
}

type CaseNote struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

type CaseTask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"createdAt"`
}
