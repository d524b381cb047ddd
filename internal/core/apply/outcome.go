package apply

import "github.com/example/wds/internal/core/batch"

// ErrorNotePrefix marks apply failures appended to a row's source_note.
const ErrorNotePrefix = "APPLY_ERROR: "

// Applied describes a row that mutated the registry.
type Applied struct {
	PersonID string
	Action   string
	Summary  string
}

// Rejection describes why a row was not applied.
type Rejection struct {
	Reason string
}

// Note is the source_note marker recorded for the rejection.
func (r Rejection) Note() string {
	return ErrorNotePrefix + r.Reason
}

// Outcome is the result of processing one staged row. Exactly one of
// Applied and Rejection is set.
type Outcome struct {
	StagingID int64
	Applied   *Applied
	Rejection *Rejection
}

// Succeed builds an applied outcome.
func Succeed(stagingID int64, personID, action, summary string) Outcome {
	return Outcome{
		StagingID: stagingID,
		Applied:   &Applied{PersonID: personID, Action: action, Summary: summary},
	}
}

// Reject builds a rejected outcome.
func Reject(stagingID int64, reason string) Outcome {
	return Outcome{StagingID: stagingID, Rejection: &Rejection{Reason: reason}}
}

// OK reports whether the row was applied.
func (o Outcome) OK() bool {
	return o.Applied != nil
}

// Tally accumulates row outcomes for one batch.
type Tally struct {
	Total    int
	Applied  int
	Rejected int
}

// Add records o.
func (t *Tally) Add(o Outcome) {
	t.Total++
	if o.OK() {
		t.Applied++
	} else {
		t.Rejected++
	}
}

// Status derives the batch status from the recorded outcomes.
func (t Tally) Status() batch.Status {
	return batch.DeriveStatus(t.Applied, t.Rejected)
}
