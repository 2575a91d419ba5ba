package policy

import (
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils/apierror"
)

// OpportunityPolicy holds the access rules for opportunities and their
// applications.
type OpportunityPolicy struct{}

func NewOpportunityPolicy() *OpportunityPolicy {
	return &OpportunityPolicy{}
}

// CanSee hides non-approved opportunities from everyone but their owner
// and administrators. actor may be nil for anonymous callers.
func (p *OpportunityPolicy) CanSee(opp *entity.Opportunity, actor *entity.Principal) apierror.ErrorResponse {
	if opp == nil {
		return apierror.OpportunityNotFoundError
	}

	if opp.ApprovalStatus == entity.ApprovalApproved {
		return nil
	}

	if actor != nil && (actor.Role == entity.RoleAdmin || isOwner(opp, actor)) {
		return nil
	}
	return apierror.OpportunityNotFoundError
}

// CanEdit only lets the owning company change the opportunity.
func (p *OpportunityPolicy) CanEdit(opp *entity.Opportunity, actor *entity.Principal) apierror.ErrorResponse {
	if opp == nil || !isOwner(opp, actor) {
		return apierror.OpportunityNotFoundError
	}
	return nil
}

// CanEngage checks an individual may apply to or show interest in opp.
func (p *OpportunityPolicy) CanEngage(opp *entity.Opportunity, actor *entity.Principal) apierror.ErrorResponse {
	if !actor.IsIndividual() {
		return apierror.ForbiddenError
	}

	if err := p.CanSee(opp, actor); err != nil {
		return err
	}

	if opp.LifecycleStatus != entity.LifecycleActive {
		return apierror.OpportunityInactiveError
	}
	return nil
}

// CanReadApplication allows the applicant, the owning company and
// administrators.
func (p *OpportunityPolicy) CanReadApplication(app *entity.Application, opp *entity.Opportunity, actor *entity.Principal) apierror.ErrorResponse {
	if app == nil || opp == nil || app.OpportunityID != opp.ID {
		return apierror.ApplicationNotFoundError
	}

	switch {
	case actor.Role == entity.RoleAdmin:
		return nil
	case actor.Role == entity.RoleCompany && isOwner(opp, actor):
		return nil
	case actor.IsIndividual() && app.UserID == actor.ID:
		return nil
	}
	return apierror.ApplicationNotFoundError
}

func isOwner(opp *entity.Opportunity, actor *entity.Principal) bool {
	return actor != nil && actor.Role == entity.RoleCompany && opp.CompanyID == actor.ID
}
