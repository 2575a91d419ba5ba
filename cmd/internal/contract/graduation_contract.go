package contract

type GraduationRequestCreate struct {
	Year   int     `json:"year" validate:"required,gte=1950,lte=2100"`
	Degree string  `json:"degree" validate:"required,min=2,max=120"`
	Thesis string  `json:"thesis" validate:"required,min=2,max=300"`
	GPA    float64 `json:"gpa" validate:"gte=0,lte=10"`
}

type GraduationRequestResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	FullName   string  `json:"full_name,omitempty"`
	Email      string  `json:"email,omitempty"`
	Year       int     `json:"year"`
	Degree     string  `json:"degree"`
	Thesis     string  `json:"thesis"`
	GPA        float64 `json:"gpa"`
	Status     string  `json:"status"`
	ReviewedAt string  `json:"reviewed_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type AuditLogResponse struct {
	ID         int64  `json:"id,string"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	CompanyID  string `json:"company_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Details    any    `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
}
