package dto

import (
	"github.com/noah-isme/previsa-console/internal/lifecycle"
	"github.com/noah-isme/previsa-console/internal/models"
)

// DateLayout is how lead dates are shown.
const DateLayout = "2006-01-02"

// LeadRow is one line of the verify-leads list.
type LeadRow struct {
	ID                            string `json:"id"`
	RegNo                         string `json:"regNo"`
	FullName                      string `json:"fullName"`
	ContactNo                     string `json:"contactNo"`
	Email                         string `json:"email"`
	PassportNumber                string `json:"passportNumber"`
	TransferredToFinalVisaManager bool   `json:"transferredToFinalVisaManager"`
	TransferredDate               string `json:"transferredDate"`
}

// NewLeadRow formats a lead for the list.
func NewLeadRow(lead models.Lead) LeadRow {
	row := LeadRow{
		ID:                            lead.ID,
		RegNo:                         lead.RegNo,
		FullName:                      lead.FullName,
		ContactNo:                     lead.ContactNo,
		Email:                         lead.Email,
		PassportNumber:                lead.PassportNumber,
		TransferredToFinalVisaManager: lead.TransferredToFinalVisaManager,
		TransferredDate:               Placeholder,
	}
	if lead.TransferredDate != nil && !lead.TransferredDate.IsZero() {
		row.TransferredDate = lead.TransferredDate.Format(DateLayout)
	}
	return row
}

// LeadDetail is the consolidated detail view: the record and its lifecycle.
type LeadDetail struct {
	Lead      models.Lead    `json:"lead"`
	Lifecycle lifecycle.View `json:"lifecycle"`
}

// LeadAction is the outcome of submit-option, transfer or reject.
type LeadAction struct {
	Message string      `json:"message"`
	Detail  *LeadDetail `json:"detail,omitempty"`
}
