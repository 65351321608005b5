package domain

import "time"

// AuditAction identifies the authentication operation an audit event records.
type AuditAction string

const (
	AuditLogin    AuditAction = "login"
	AuditRegister AuditAction = "register"
	AuditRefresh  AuditAction = "refresh"
)

// AuditOutcome is the recorded result of the operation.
type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "success"
	OutcomeFailure AuditOutcome = "failure"
)

// AuthEvent is a single entry in the authentication audit trail.
type AuthEvent struct {
	Subject   string       `json:"subject"`
	Action    AuditAction  `json:"action"`
	Outcome   AuditOutcome `json:"outcome"`
	Reason    string       `json:"reason,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
