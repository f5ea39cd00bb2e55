package mapping

import (
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
)

// ToDomainWorkflowSetting converts a model WorkflowSetting to its domain form.
func ToDomainWorkflowSetting(m models.WorkflowSetting) domain.WorkflowSetting {
	return domain.WorkflowSetting{
		Level:        domain.Level(m.Level),
		DelayMinutes: m.DelayMinutes,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainActionRecord converts a model ActionRecord to its domain form.
func ToDomainActionRecord(m models.ActionRecord) domain.ActionRecord {
	return domain.ActionRecord{
		ActionRecordID: m.ActionRecordID,
		RequisitionID:  m.RequisitionID,
		ActorID:        m.ActorID,
		Action:         domain.Action(m.Action),
		FromLevel:      domain.Level(m.FromLevel),
		ToLevel:        domain.Level(m.ToLevel),
		Comment:        m.Comment,
		CreatedAt:      m.CreatedAt,
	}
}

// ToModelActionRecord converts a domain ActionRecord to its model form.
func ToModelActionRecord(d domain.ActionRecord) models.ActionRecord {
	return models.ActionRecord{
		ActionRecordID: d.ActionRecordID,
		RequisitionID:  d.RequisitionID,
		ActorID:        d.ActorID,
		Action:         string(d.Action),
		FromLevel:      string(d.FromLevel),
		ToLevel:        string(d.ToLevel),
		Comment:        d.Comment,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainOrgService converts a model OrgService to its domain form.
func ToDomainOrgService(m models.OrgService) domain.OrgService {
	d := domain.OrgService{
		ServiceID:   m.ServiceID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.SupervisorID != nil {
		d.SupervisorID = *m.SupervisorID
	}
	return d
}
