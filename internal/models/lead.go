package models

import "time"

// OfficeConfirmation holds the charges entered by the office for a lead.
type OfficeConfirmation struct {
	ServiceCharge string `json:"serviceCharge,omitempty"`
	MedicalCharge string `json:"medicalCharge,omitempty"`
}

// Lead is an applicant's intake record (client form) in the Pre-Visa stage.
type Lead struct {
	ID            string `json:"id"`
	RegNo         string `json:"regNo,omitempty"`
	FullName      string `json:"fullName"`
	FatherName    string `json:"fatherName,omitempty"`
	Address       string `json:"address,omitempty"`
	State         string `json:"state,omitempty"`
	PinCode       string `json:"pinCode,omitempty"`
	WhatsAppNo    string `json:"whatsAppNo,omitempty"`
	FamilyContact string `json:"familyContact,omitempty"`
	ContactNo     string `json:"contactNo,omitempty"`
	Email         string `json:"email,omitempty"`

	PassportNumber string `json:"passportNumber,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	PassportExpiry string `json:"passportExpiry,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	ECR            bool   `json:"ecr"`
	ECNR           bool   `json:"ecnr"`

	Occupation            string `json:"occupation,omitempty"`
	PlaceOfEmployment     string `json:"placeOfEmployment,omitempty"`
	LastExperience        string `json:"lastExperience,omitempty"`
	LastSalaryPostDetails string `json:"lastSalaryPostDetails,omitempty"`
	ExpectedSalary        string `json:"expectedSalary,omitempty"`
	MedicalReport         string `json:"medicalReport,omitempty"`
	InterviewStatus       string `json:"interviewStatus,omitempty"`
	PCCStatus             string `json:"pccStatus,omitempty"`

	Photo     string `json:"photo,omitempty"`
	Signature string `json:"signature,omitempty"`

	OfficeConfirmation OfficeConfirmation `json:"officeConfirmation"`

	TransferredToFinalVisaManager bool       `json:"transferredToFinalVisaManager"`
	TransferredForPreVisaBy       *Manager   `json:"transferredForPreVisaBy,omitempty"`
	TransferredDate               *time.Time `json:"transferredDate,omitempty"`
	Rejected                      bool       `json:"rejected"`
	Status                        string     `json:"status,omitempty"`
	CreatedAt                     time.Time  `json:"createdAt"`
}

// LeadFilter narrows the verify-leads list.
type LeadFilter struct {
	Search   string
	Page     int
	PageSize int
}

// TransferRequest asks to forward a lead to a Final Visa manager.
type TransferRequest struct {
	FinalVisaManagerID string `json:"finalVisaManagerId"`
}
