package contract

type EventType string

const (
	EventPing EventType = "ping"

	EventConnectionKill EventType = "CONNECTION_KILL"
	EventSessionExpired EventType = "SESSION_EXPIRED"
	EventAck            EventType = "ACK"

	EventOpportunityApproved EventType = "OPPORTUNITY_APPROVED"
	EventOpportunityRejected EventType = "OPPORTUNITY_REJECTED"
	EventCompanyApproved     EventType = "COMPANY_APPROVED"
	EventCompanyRejected     EventType = "COMPANY_REJECTED"
)

type KillCode string

const (
	KillCodeAccountDeleted KillCode = "ACCOUNT_DELETED"
	KillCodeLoggedOut      KillCode = "LOGGED_OUT"
)

// IncomingSocketMessage is used for messages we receive from the users.
type IncomingSocketMessage struct {
	Type EventType `json:"type"`
}

// OutgoingSocketMessage is what we send to the Client
type OutgoingSocketMessage struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}
