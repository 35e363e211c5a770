package types

// BoycottReason is one structured reason: a cause reference plus the
// description the client believes that cause carries. The description is
// checked against the stored one before anything is written.
type BoycottReason struct {
	CauseID   string `json:"cause_id"`
	CauseDesc string `json:"cause_desc"`
}

// AddBoycottsForm is the request body for recording boycotts. The acting
// user comes from the verified token, never from the body.
type AddBoycottsForm struct {
	CompanyID      string          `json:"company_id"`
	CompanyName    string          `json:"company_name"`
	Reasons        []BoycottReason `json:"reasons"`
	PersonalReason string          `json:"personal_reason"`
}

// Outcome classifies a whole add-boycotts request.
type Outcome string

const (
	// OutcomeAllSuccess: at least one write attempted and every attempt
	// succeeded.
	OutcomeAllSuccess Outcome = "all_success"
	// OutcomeAllDuplicate: zero writes succeeded. Covers the all-skipped
	// case and the everything-failed case alike; skips and "no work" are
	// indistinguishable at this level.
	OutcomeAllDuplicate Outcome = "all_duplicate"
	// OutcomePartialSuccess: at least one success and at least one failure.
	OutcomePartialSuccess Outcome = "partial_success"
)

// AddBoycottsResult is the composite outcome of one request plus the
// per-item failure messages collected along the way.
type AddBoycottsResult struct {
	Outcome Outcome  `json:"outcome"`
	Errors  []string `json:"errors,omitempty"`
}
