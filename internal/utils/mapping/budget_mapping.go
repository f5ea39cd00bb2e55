package mapping

import (
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
)

// ToModelBudgetLine converts a domain BudgetLine to a model BudgetLine.
func ToModelBudgetLine(d domain.BudgetLine) models.BudgetLine {
	return models.BudgetLine{
		BudgetLineID:   d.BudgetLineID,
		Description:    d.Description,
		Month:          d.Month,
		Allocated:      d.Allocated,
		Consumed:       d.Consumed,
		Classification: d.Classification,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetLine converts a model BudgetLine to a domain BudgetLine.
func ToDomainBudgetLine(m models.BudgetLine) domain.BudgetLine {
	return domain.BudgetLine{
		BudgetLineID:   m.BudgetLineID,
		Description:    m.Description,
		Month:          m.Month,
		Allocated:      m.Allocated,
		Consumed:       m.Consumed,
		Classification: m.Classification,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
