package contract

const (
	MaxCVSizeBytes    = 5 * 1024 * 1024
	MaxFlyerSizeBytes = 10 * 1024 * 1024
)

var (
	ValidCVFileTypes    = []string{"pdf"}
	ValidFlyerFileTypes = []string{"pdf", "png", "jpg", "jpeg", "webp"}
)

// JobOpportunityRequest creates a job offer, or updates it when ID is set.
type JobOpportunityRequest struct {
	ID              *string `json:"id" validate:"omitempty,uuid"`
	Title           string  `json:"title" validate:"required,min=3,max=150"`
	Description     string  `json:"description" validate:"required,min=10,max=5000"`
	Mode            string  `json:"mode" validate:"required,max=50"`
	Requirements    string  `json:"requirements" validate:"required,max=3000"`
	ContactInfo     string  `json:"contact_info" validate:"required,max=300"`
	Salary          string  `json:"salary" validate:"max=100"`
	Schedule        string  `json:"schedule" validate:"max=100"`
	LifecycleStatus string  `json:"lifecycle_status" validate:"omitempty,lifecycle"`
}

// TFGOpportunityRequest creates a TFG or internship, or updates it when ID
// is set.
type TFGOpportunityRequest struct {
	ID              *string `json:"id" validate:"omitempty,uuid"`
	Type            string  `json:"type" validate:"omitempty,oneof=TFG INTERNSHIP"`
	Title           string  `json:"title" validate:"required,min=3,max=150"`
	Description     string  `json:"description" validate:"required,min=10,max=5000"`
	Mode            string  `json:"mode" validate:"required,max=50"`
	Requirements    string  `json:"requirements" validate:"required,max=3000"`
	ContactInfo     string  `json:"contact_info" validate:"required,max=300"`
	Duration        string  `json:"duration" validate:"max=100"`
	Remunerated     bool    `json:"remunerated"`
	LifecycleStatus string  `json:"lifecycle_status" validate:"omitempty,lifecycle"`
}

type DeleteOpportunityRequest struct {
	OpportunityID string `json:"opportunity_id" validate:"required,uuid"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

type OpportunityResponse struct {
	ID              string `json:"id"`
	CompanyID       string `json:"company_id"`
	CompanyName     string `json:"company_name,omitempty"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Mode            string `json:"mode"`
	Requirements    string `json:"requirements"`
	ContactInfo     string `json:"contact_info"`
	ApprovalStatus  string `json:"approval_status"`
	LifecycleStatus string `json:"lifecycle_status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	FlyerURL        string `json:"flyer_url,omitempty"`
	Salary          string `json:"salary,omitempty"`
	Schedule        string `json:"schedule,omitempty"`
	Duration        string `json:"duration,omitempty"`
	Remunerated     *bool  `json:"remunerated,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type FlyerResponse struct {
	FlyerURL string `json:"flyer_url"`
}
