package events

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
)

type SocketEvent interface {
	GetType() contract.EventType
}

type Ack struct{}

func (*Ack) GetType() contract.EventType {
	return contract.EventAck
}

type ConnectionKill struct {
	Code   contract.KillCode `json:"code"`
	Reason *string           `json:"reason,omitempty"`
}

func (e *ConnectionKill) GetType() contract.EventType {
	return contract.EventConnectionKill
}

// OpportunityReviewed is pushed to the owning company after an
// administrator decision.
type OpportunityReviewed struct {
	*contract.OpportunityResponse
}

func (e *OpportunityReviewed) GetType() contract.EventType {
	if e.ApprovalStatus == string(entity.ApprovalApproved) {
		return contract.EventOpportunityApproved
	}
	return contract.EventOpportunityRejected
}

type CompanyReviewed struct {
	*contract.CompanyResponse
}

func (e *CompanyReviewed) GetType() contract.EventType {
	if e.ApprovalStatus == string(entity.ApprovalApproved) {
		return contract.EventCompanyApproved
	}
	return contract.EventCompanyRejected
}
