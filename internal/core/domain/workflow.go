package domain

import "time"

// WorkflowSetting configures auto-escalation for one pipeline level.
// DelayMinutes == 0 disables escalation for the level.
type WorkflowSetting struct {
	Level        Level `json:"level"` // Primary Key
	DelayMinutes int   `json:"delayMinutes"`
	AuditFields
}

// ActionRecord is one immutable audit entry for a workflow transition.
type ActionRecord struct {
	ActionRecordID string    `json:"actionRecordID"`
	RequisitionID  string    `json:"requisitionID"`
	ActorID        string    `json:"actorID"`
	Action         Action    `json:"action"`
	FromLevel      Level     `json:"fromLevel"`
	ToLevel        Level     `json:"toLevel"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OrgService is the organizational unit a requisition issuer belongs to.
// SupervisorID, when set and distinct from the issuer, inserts the
// service-approval step into the pipeline.
type OrgService struct {
	ServiceID    string `json:"serviceID"`
	Name         string `json:"name"`
	SupervisorID string `json:"supervisorID"` // Empty when no designated supervisor
	AuditFields
}
