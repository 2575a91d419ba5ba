package policy

import (
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils/apierror"
)

type CompanyPolicy struct{}

func NewCompanyPolicy() *CompanyPolicy {
	return &CompanyPolicy{}
}

// CanLogin maps the approval gate to the login answers: pending companies
// get 402, rejected ones 403.
func (p *CompanyPolicy) CanLogin(company *entity.Company) apierror.ErrorResponse {
	switch company.ApprovalStatus {
	case entity.ApprovalApproved:
		return nil
	case entity.ApprovalPending:
		return apierror.CompanyPendingError
	default:
		return apierror.CompanyRejectedError
	}
}

// CanAct is checked on every company request, the session alone is not
// enough once an administrator changed the company.
func (p *CompanyPolicy) CanAct(company *entity.Company) apierror.ErrorResponse {
	if company == nil {
		return apierror.UnauthorizedError
	}

	if !company.IsApproved() {
		return apierror.CompanyNotApprovedError
	}
	return nil
}
