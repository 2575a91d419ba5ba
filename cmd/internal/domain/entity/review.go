package entity

import "github.com/google/uuid"

// Review is an administrator decision applied to a pending row.
type Review struct {
	Status  ApprovalStatus
	Reason  string
	ActorID uuid.UUID
	At      int64
}
