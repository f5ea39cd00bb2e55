package mapping

import (
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
)

// ToDomainFund converts a model Fund to a domain Fund.
func ToDomainFund(m models.Fund) domain.Fund {
	return domain.Fund{
		Currency:    m.Currency,
		Available:   m.Available,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFundMovement converts a model FundMovement to a domain FundMovement.
func ToDomainFundMovement(m models.FundMovement) domain.FundMovement {
	return domain.FundMovement{
		MovementID:  m.MovementID,
		Type:        domain.MovementType(m.Type),
		Amount:      m.Amount,
		Currency:    m.Currency,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}

// ToModelFundMovement converts a domain FundMovement to a model FundMovement.
func ToModelFundMovement(d domain.FundMovement) models.FundMovement {
	return models.FundMovement{
		MovementID:  d.MovementID,
		Type:        string(d.Type),
		Amount:      d.Amount,
		Currency:    d.Currency,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		RequisitionID: m.RequisitionID,
		AmountUSD:     m.AmountUSD,
		AmountCDF:     m.AmountCDF,
		Comment:       m.Comment,
		PaidBy:        m.PaidBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		RequisitionID: d.RequisitionID,
		AmountUSD:     d.AmountUSD,
		AmountCDF:     d.AmountCDF,
		Comment:       d.Comment,
		PaidBy:        d.PaidBy,
		CreatedAt:     d.CreatedAt,
	}
}
