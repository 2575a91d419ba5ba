package apierror

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"net/http"
	"strings"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	Status    int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

// Machine readable codes for conflicts clients need to tell apart.
const (
	CodeAlreadyApplied         = "YA_APLICO"
	CodeAlreadyInterested      = "ALREADY_INTERESTED"
	CodeOpportunityInactive    = "OPPORTUNITY_INACTIVE"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeHasActiveOpportunities = "COMPANY_HAS_ACTIVE_OPPORTUNITIES"
	CodeHasApplications        = "OPPORTUNITY_HAS_APPLICATIONS"
	CodeGraduationPending      = "GRADUATION_REQUEST_PENDING"
	CodeCompanyPendingApproval = "COMPANY_PENDING_APPROVAL"
	CodeCompanyRejected        = "COMPANY_REJECTED"
	CodeRateLimited            = "RATE_LIMITED"
	CodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
)

var (
	MalformedBodyError  = NewSimple(400, "Malformed request body")
	InternalServerError = NewSimple(500, "Internal server error")

	NotFoundError  = NewSimple(404, "Resource not found")
	InvalidIDError = NewSimple(400, "The provided ID is invalid, IDs are UUIDs")

	UnauthorizedError = NewSimple(401, "Authentication required")
	ForbiddenError    = NewSimple(403, "You are not allowed to perform this action")
	RateLimitedError  = NewCoded(429, CodeRateLimited, "Too many requests, try again later")

	/*
	 * Approval workflow
	 */
	RejectionReasonTooShortError = NewSimple(400, "La razón del rechazo debe tener al menos 20 caracteres")
	InvalidTransitionError       = NewCoded(409, CodeInvalidTransition, "Only pending records can be approved or rejected")
	InvalidStatusError           = NewSimple(400, "Unknown approval status")

	/*
	 * Companies
	 */
	CompanyNotFoundError             = NewSimple(404, "Company not found")
	CompanyEmailTakenError           = NewCoded(409, CodeEmailAlreadyRegistered, "A company with this email already exists")
	CompanyCredentialsError          = NewSimple(401, "Invalid email or password")
	CompanyPendingError              = NewCoded(402, CodeCompanyPendingApproval, "The company is pending approval")
	CompanyRejectedError             = NewCoded(403, CodeCompanyRejected, "The company registration was rejected")
	CompanyNotApprovedError          = NewSimple(403, "The company is not approved")
	CompanyHasActiveOpportunityError = NewCoded(409, CodeHasActiveOpportunities, "The company still owns active opportunities")

	/*
	 * Opportunities, applications and interest
	 */
	OpportunityNotFoundError        = NewSimple(404, "Opportunity not found")
	OpportunityInactiveError        = NewCoded(400, CodeOpportunityInactive, "The opportunity is not active")
	OpportunityHasApplicationsError = NewCoded(409, CodeHasApplications, "The opportunity already has applications")
	InvalidOpportunityTypeError     = NewSimple(400, "Unknown opportunity type")
	RejectedActivationError         = NewCoded(409, CodeInvalidTransition, "A rejected opportunity cannot be activated")
	AlreadyAppliedError             = NewCoded(409, CodeAlreadyApplied, "You already applied to this opportunity")
	AlreadyInterestedError          = NewCoded(409, CodeAlreadyInterested, "You already manifested interest in this opportunity")
	ApplicationNotFoundError        = NewSimple(404, "Application not found")
	CVNotFoundError                 = NewSimple(404, "CV not found")

	/*
	 * Uploads
	 */
	MissingFileError        = NewSimple(400, "A file is required")
	BodyTooLargeError       = NewSimple(400, "The request body is too large")
	CVNotPDFError           = NewSimple(400, "The CV must be a PDF file")
	CVTooLargeError         = NewSimple(400, "The CV must not exceed 5MB")
	FlyerTypeError          = NewSimple(400, "The flyer must be a pdf, png, jpg, jpeg or webp file")
	FlyerTooLargeError      = NewSimple(400, "The flyer must not exceed 10MB")
	StorageUnavailableError = NewSimple(500, "File storage is unavailable")

	/*
	 * Graduation requests
	 */
	GraduationRequestNotFoundError = NewSimple(404, "Graduation request not found")
	GraduationPendingError         = NewCoded(409, CodeGraduationPending, "You already have a pending graduation request")

	/*
	 * Used for authentications
	 */
	UserNotFoundError           = NewSimple(404, "User not found")
	UserAlreadyConfirmedError   = NewSimple(400, "User is already confirmed")
	IDPInvalidPasswordError     = NewSimple(400, "Provided password does not meet requirements")
	IDPExistingEmailError       = NewSimple(400, "Email already exists")
	IDPUserNotFoundError        = NewSimple(404, "User not found")
	IDPUserNotConfirmedError    = NewSimple(400, "User is not confirmed yet")
	IDPCredentialsMismatchError = NewSimple(400, "Credentials mismatch")
	IDPConfirmCodeMismatchError = NewSimple(400, "Confirmation code mismatch")
	IDPConfirmCodeExpiredError  = NewSimple(400, "Confirmation code has expired")
	IDPInvalidParameterError    = NewSimple(400, "Invalid parameters provided, the user is likely already verified")
	IDPTooManyRequestsError     = NewCoded(429, CodeRateLimited, "Too many attempts, try again later")
)

// FromValidationError maps validator field errors to a 400 StructuredError.
// Anything else is reported as a malformed body.
func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return MalformedBodyError
	}

	structured := NewStructured(http.StatusBadRequest)
	problems := structured.Errors
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "gte":
			problems[field] = append(problems[field], "Value is too small, min: "+fe.Param())
		case "lte":
			problems[field] = append(problems[field], "Value is too big, max: "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "approval":
			problems[field] = append(problems[field], "Value must be an approval status")
		case "lifecycle":
			problems[field] = append(problems[field], "Value must be ACTIVE or INACTIVE")
		case "password":
			problems[field] = append(problems[field], "Password must have 8 to 64 characters with upper and lower case letters, a number and a special character")
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain spaces")
		case "uuid", "uuid4":
			problems[field] = append(problems[field], "Value must be a valid UUID")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}
	return structured
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewCoded(status int, code, msg string) *APIError {
	return &APIError{Status: status, ErrorCode: code, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Missing required parameter '%s'", name)
}
