package mapping

import (
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
)

// ToModelRequisition converts a domain Requisition to a model Requisition.
func ToModelRequisition(d domain.Requisition) models.Requisition {
	m := models.Requisition{
		RequisitionID:  d.RequisitionID,
		Number:         d.Number,
		AmountUSD:      d.AmountUSD,
		AmountCDF:      d.AmountCDF,
		Level:          string(d.Level),
		Status:         string(d.Status),
		IssuerID:       d.IssuerID,
		ServiceID:      d.ServiceID,
		BudgetImpacted: d.BudgetImpacted,
		Version:        d.Version,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.ReturnLevel != nil {
		rl := string(*d.ReturnLevel)
		m.ReturnLevel = &rl
	}
	if d.PaymentMode != "" {
		pm := d.PaymentMode
		m.PaymentMode = &pm
	}
	return m
}

// ToDomainRequisition converts a model Requisition to a domain Requisition.
func ToDomainRequisition(m models.Requisition) domain.Requisition {
	d := domain.Requisition{
		RequisitionID:  m.RequisitionID,
		Number:         m.Number,
		AmountUSD:      m.AmountUSD,
		AmountCDF:      m.AmountCDF,
		Level:          domain.Level(m.Level),
		Status:         domain.Status(m.Status),
		IssuerID:       m.IssuerID,
		ServiceID:      m.ServiceID,
		BudgetImpacted: m.BudgetImpacted,
		Version:        m.Version,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if m.ReturnLevel != nil {
		rl := domain.Level(*m.ReturnLevel)
		d.ReturnLevel = &rl
	}
	if m.PaymentMode != nil {
		d.PaymentMode = *m.PaymentMode
	}
	return d
}

// ToModelLineItem converts a domain LineItem to a model LineItem.
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:    d.LineItemID,
		RequisitionID: d.RequisitionID,
		Description:   d.Description,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		Total:         d.Total,
		Currency:      d.Currency,
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem.
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:    m.LineItemID,
		RequisitionID: m.RequisitionID,
		Description:   m.Description,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Total:         m.Total,
		Currency:      m.Currency,
	}
}

// ToDomainLineItemSlice converts a slice of model LineItems.
func ToDomainLineItemSlice(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}
