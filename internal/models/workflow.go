package models

import "time"

// WorkflowSetting mirrors the workflow_settings table. One row per level.
type WorkflowSetting struct {
	Level        string `json:"level"`
	DelayMinutes int    `json:"delayMinutes"`
	AuditFields
}

// ActionRecord mirrors the append-only action_records table.
type ActionRecord struct {
	ActionRecordID string    `json:"actionRecordID"`
	RequisitionID  string    `json:"requisitionID"`
	ActorID        string    `json:"actorID"`
	Action         string    `json:"action"`
	FromLevel      string    `json:"fromLevel"`
	ToLevel        string    `json:"toLevel"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OrgService mirrors the services table (organizational units).
type OrgService struct {
	ServiceID    string  `json:"serviceID"`
	Name         string  `json:"name"`
	SupervisorID *string `json:"supervisorID"` // Nullable
	AuditFields
}
