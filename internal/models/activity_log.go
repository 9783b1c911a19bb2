package models

import (
	"time"

	"github.com/lib/pq"
)

// ActivityOutcome records whether a console mutation reached the upstream API successfully.
type ActivityOutcome string

const (
	OutcomeSuccess ActivityOutcome = "success"
	OutcomeFailure ActivityOutcome = "failure"
)

// ActivityLog is one audited console mutation.
type ActivityLog struct {
	ID        int64           `db:"id" json:"id"`
	Actor     string          `db:"actor" json:"actor"`
	Screen    string          `db:"screen" json:"screen"`
	Action    string          `db:"action" json:"action"`
	EntityIDs pq.StringArray  `db:"entity_ids" json:"entityIds"`
	Outcome   ActivityOutcome `db:"outcome" json:"outcome"`
	Message   string          `db:"message" json:"message"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}
