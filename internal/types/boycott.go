package types

// BoycottFact is one user_boycotts row: an immutable assertion that a user
// boycotts a company for one reason. CompanyCauseID is the sort-key
// discriminator; for cause-backed facts it is "companyID#causeID", for
// personal-reason facts "personalReason#companyID". Company name and cause
// description are denormalized snapshots taken at write time.
type BoycottFact struct {
	UserID         string `dynamodbav:"user_id" json:"user_id"`
	CompanyID      string `dynamodbav:"company_id" json:"company_id"`
	CompanyName    string `dynamodbav:"company_name" json:"company_name"`
	CauseID        string `dynamodbav:"cause_id,omitempty" json:"cause_id,omitempty"`
	CauseDesc      string `dynamodbav:"cause_desc,omitempty" json:"cause_desc,omitempty"`
	PersonalReason string `dynamodbav:"personal_reason,omitempty" json:"personal_reason,omitempty"`
	CompanyCauseID string `dynamodbav:"company_cause_id" json:"company_cause_id"`
	Timestamp      string `dynamodbav:"timestamp" json:"timestamp"`
}

// CauseFollow is one user_causes row marking that a user follows a cause.
// Created at most once per (user, cause).
type CauseFollow struct {
	UserID    string `dynamodbav:"user_id" json:"user_id"`
	CauseID   string `dynamodbav:"cause_id" json:"cause_id"`
	CauseDesc string `dynamodbav:"cause_desc" json:"cause_desc"`
	Timestamp string `dynamodbav:"timestamp" json:"timestamp"`
}

// CauseCompanyStat is one cause_company_stats row: the per-cause-per-company
// boycott tally with label snapshots.
type CauseCompanyStat struct {
	CauseID      string `dynamodbav:"cause_id" json:"cause_id"`
	CompanyID    string `dynamodbav:"company_id" json:"company_id"`
	CompanyName  string `dynamodbav:"company_name" json:"company_name"`
	CauseDesc    string `dynamodbav:"cause_desc" json:"cause_desc"`
	BoycottCount int    `dynamodbav:"boycott_count" json:"boycott_count"`
}
