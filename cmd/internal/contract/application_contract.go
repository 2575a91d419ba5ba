package contract

type ApplyResponse struct {
	ApplyID string `json:"apply_id"`
	CVURL   string `json:"cv_url"`
}

type ApplicationResponse struct {
	ID          string               `json:"id"`
	Opportunity *OpportunityResponse `json:"opportunity,omitempty"`
	AppliedAt   string               `json:"applied_at"`
}

// ApplicantResponse is what a company sees of an application.
type ApplicantResponse struct {
	ApplyID   string `json:"apply_id"`
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Degree    string `json:"degree,omitempty"`
	AppliedAt string `json:"applied_at"`
}

type InterestResponse struct {
	OpportunityID string               `json:"opportunity_id"`
	Opportunity   *OpportunityResponse `json:"opportunity,omitempty"`
	CreatedAt     string               `json:"created_at"`
}
