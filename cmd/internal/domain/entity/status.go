package entity

import "strings"

// ApprovalStatus is the administrator-controlled gate shared by companies,
// opportunities and graduation requests.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// LifecycleStatus controls whether an opportunity accepts interest and applications.
type LifecycleStatus string

const (
	LifecycleActive   LifecycleStatus = "ACTIVE"
	LifecycleInactive LifecycleStatus = "INACTIVE"
)

// ParseApprovalStatus normalizes every spelling that ever reached the
// database (canonical English, legacy Spanish, any casing) into the
// canonical value. It returns false for anything else.
func ParseApprovalStatus(raw string) (ApprovalStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "PENDIENTE":
		return ApprovalPending, true
	case "APPROVED", "APROBADA", "APROBADO":
		return ApprovalApproved, true
	case "REJECTED", "RECHAZADA", "RECHAZADO":
		return ApprovalRejected, true
	default:
		return "", false
	}
}

func ParseLifecycleStatus(raw string) (LifecycleStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ACTIVE", "ACTIVA", "ACTIVO":
		return LifecycleActive, true
	case "INACTIVE", "INACTIVA", "INACTIVO":
		return LifecycleInactive, true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether an administrator decision may move a row
// from s to next. Only pending rows can be decided.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	if s != ApprovalPending {
		return false
	}
	return next == ApprovalApproved || next == ApprovalRejected
}
