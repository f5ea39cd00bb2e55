package dto

import "github.com/ASOFES/R-quisitions-sub001/internal/core/domain"

// UpsertWorkflowSettingRequest sets the escalation delay for one level.
// Zero disables auto-escalation for the level.
type UpsertWorkflowSettingRequest struct {
	Level        string `json:"level" binding:"required"`
	DelayMinutes int    `json:"delayMinutes" binding:"min=0"`
}

// WorkflowSettingResponse is the API representation of one level delay.
type WorkflowSettingResponse struct {
	Level        string `json:"level"`
	DelayMinutes int    `json:"delayMinutes"`
}

// ToWorkflowSettingResponses maps domain settings to their API form.
func ToWorkflowSettingResponses(settings []domain.WorkflowSetting) []WorkflowSettingResponse {
	out := make([]WorkflowSettingResponse, len(settings))
	for i, s := range settings {
		out[i] = WorkflowSettingResponse{Level: string(s.Level), DelayMinutes: s.DelayMinutes}
	}
	return out
}
