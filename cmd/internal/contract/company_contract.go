package contract

type CompanyRegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password"`
}

type CompanyLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=64"`
}

type CompanyResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ApprovalStatus  string `json:"approval_status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	LogoURL         string `json:"logo_url,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type CompanyLogoResponse struct {
	LogoURL string `json:"logo_url"`
}

type CompanyMetricsResponse struct {
	TotalOpportunities    int64 `json:"total_opportunities"`
	ActiveOpportunities   int64 `json:"active_opportunities"`
	InactiveOpportunities int64 `json:"inactive_opportunities"`
	PendingOpportunities  int64 `json:"pending_opportunities"`
	ApprovedOpportunities int64 `json:"approved_opportunities"`
	RejectedOpportunities int64 `json:"rejected_opportunities"`
	TotalApplications     int64 `json:"total_applications"`
	TotalInterests        int64 `json:"total_interests"`
}

// CompanyOpportunityResponse is a dashboard row.
type CompanyOpportunityResponse struct {
	*OpportunityResponse
	ApplicationCount int64 `json:"application_count"`
	InterestCount    int64 `json:"interest_count"`
}
