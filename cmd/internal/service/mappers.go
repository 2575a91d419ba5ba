package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"encoding/json"
)

func toOpportunityResponse(opp *entity.Opportunity) *contract.OpportunityResponse {
	resp := &contract.OpportunityResponse{
		ID:              opp.ID.String(),
		CompanyID:       opp.CompanyID.String(),
		Type:            string(opp.Type),
		Title:           opp.Title,
		Description:     opp.Description,
		Mode:            opp.Mode,
		Requirements:    opp.Requirements,
		ContactInfo:     opp.ContactInfo,
		ApprovalStatus:  string(opp.ApprovalStatus),
		LifecycleStatus: string(opp.LifecycleStatus),
		RejectionReason: opp.RejectionReason,
		FlyerURL:        opp.FlyerURL,
		CreatedAt:       utils.FormatEpoch(opp.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(opp.UpdatedAt),
	}

	if opp.Company != nil {
		resp.CompanyName = opp.Company.Name
	}

	if opp.Type == entity.OpportunityJob {
		resp.Salary = opp.Salary
		resp.Schedule = opp.Schedule
	} else {
		remunerated := opp.Remunerated
		resp.Duration = opp.Duration
		resp.Remunerated = &remunerated
	}
	return resp
}

func toOpportunityResponses(opps []*entity.Opportunity) []*contract.OpportunityResponse {
	resp := make([]*contract.OpportunityResponse, len(opps))
	for i, opp := range opps {
		resp[i] = toOpportunityResponse(opp)
	}
	return resp
}

func toCompanyResponse(company *entity.Company) *contract.CompanyResponse {
	return &contract.CompanyResponse{
		ID:              company.ID.String(),
		Name:            company.Name,
		Email:           company.Email,
		ApprovalStatus:  string(company.ApprovalStatus),
		RejectionReason: company.RejectionReason,
		LogoURL:         company.LogoURL,
		CreatedAt:       utils.FormatEpoch(company.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(company.UpdatedAt),
	}
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:            user.ID.String(),
		FullName:      user.FullName,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Role:          string(user.Role),
		Phone:         user.Phone,
		Degree:        user.Degree,
		Bio:           user.Bio,
		CreatedAt:     utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(user.UpdatedAt),
	}
}

func toGraduationResponse(req *entity.GraduationRequest) *contract.GraduationRequestResponse {
	resp := &contract.GraduationRequestResponse{
		ID:        req.ID.String(),
		UserID:    req.UserID.String(),
		Year:      req.Year,
		Degree:    req.Degree,
		Thesis:    req.Thesis,
		GPA:       req.GPA,
		Status:    string(req.Status),
		CreatedAt: utils.FormatEpoch(req.CreatedAt),
	}

	if req.ReviewedAt > 0 {
		resp.ReviewedAt = utils.FormatEpoch(req.ReviewedAt)
	}

	if req.User != nil {
		resp.FullName = req.User.FullName
		resp.Email = req.User.Email
	}
	return resp
}

func toAuditLogResponse(entry *entity.AuditLog) *contract.AuditLogResponse {
	resp := &contract.AuditLogResponse{
		ID:         entry.ID,
		Action:     string(entry.Action),
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID.String(),
		ActorID:    entry.ActorID.String(),
		CreatedAt:  utils.FormatEpoch(entry.CreatedAt),
	}

	if entry.CompanyID != nil {
		resp.CompanyID = entry.CompanyID.String()
	}

	if len(entry.Details) > 0 {
		resp.Details = json.RawMessage(entry.Details)
	}
	return resp
}

func toPrincipalResponse(p *entity.Principal) *contract.PrincipalResponse {
	return &contract.PrincipalResponse{
		ID:       p.ID.String(),
		Role:     string(p.Role),
		Name:     p.Name,
		Email:    p.Email,
		Verified: p.Verified,
	}
}
