package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
	"github.com/noah-isme/previsa-console/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type jobSource interface {
	Jobs(ctx context.Context) ([]models.Job, dto.ListStatus)
}

type leadSource interface {
	Detail(ctx context.Context, leadID string) (*dto.LeadDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderSheet(title string, sections []export.Section) ([]byte, error)
}

// ExportResult is a rendered document ready to be sent.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	Stale       bool
}

// ExportService renders the job grid and lead print-outs.
type ExportService struct {
	jobs   jobSource
	leads  leadSource
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(jobs jobSource, leads leadSource, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{jobs: jobs, leads: leads, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Jobs exports the job grid as CSV or PDF.
func (s *ExportService) Jobs(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	jobs, status := s.jobs.Jobs(ctx)
	data := export.Dataset{Headers: []string{"Job Title", "Country", "Work Time", "Salary", "Service Charge", "Admin Charge", "Description"}}
	for _, row := range dto.NewJobRows(jobs) {
		data.AddRow(row.JobTitle, row.CountryName, row.WorkTime, row.Salary, row.ServiceCharge, row.AdminCharge, row.Description)
	}

	stamp := s.now().UTC().Format("20060102")
	result := &ExportResult{Stale: status.Stale}
	var err error
	switch format {
	case ExportFormatPDF:
		result.Payload, err = s.pdf.Render(data, "Jobs")
		result.ContentType = "application/pdf"
	default:
		result.Payload, err = s.csv.Render(data)
		result.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	result.Filename = fmt.Sprintf("jobs-%s.%s", stamp, format)
	return result, nil
}

// LeadPDF renders one lead's intake record with its lifecycle stage.
func (s *ExportService) LeadPDF(ctx context.Context, leadID string) (*ExportResult, error) {
	detail, err := s.leads.Detail(ctx, leadID)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.RenderSheet("Client Form", leadSections(detail))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render lead")
	}
	name := detail.Lead.RegNo
	if name == "" {
		name = detail.Lead.ID
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("client-form-%s.pdf", name),
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}

func leadSections(detail *dto.LeadDetail) []export.Section {
	lead := detail.Lead
	row := dto.NewLeadRow(lead)
	transferredBy := ""
	if lead.TransferredForPreVisaBy != nil {
		transferredBy = firstNonBlank(lead.TransferredForPreVisaBy.Name, lead.TransferredForPreVisaBy.ID)
	}

	sections := []export.Section{
		{Title: "Personal Details", Fields: []export.Field{
			{Label: "Registration No", Value: lead.RegNo},
			{Label: "Full Name", Value: lead.FullName},
			{Label: "Father's Name", Value: lead.FatherName},
			{Label: "Address", Value: lead.Address},
			{Label: "State", Value: lead.State},
			{Label: "Pin Code", Value: lead.PinCode},
			{Label: "WhatsApp No", Value: lead.WhatsAppNo},
			{Label: "Family Contact", Value: lead.FamilyContact},
			{Label: "Contact No", Value: lead.ContactNo},
			{Label: "Email", Value: lead.Email},
		}},
		{Title: "Passport Details", Fields: []export.Field{
			{Label: "Passport Number", Value: lead.PassportNumber},
			{Label: "Date of Birth", Value: lead.DateOfBirth},
			{Label: "Passport Expiry", Value: lead.PassportExpiry},
			{Label: "Nationality", Value: lead.Nationality},
			{Label: "ECR", Value: yesNo(lead.ECR)},
			{Label: "ECNR", Value: yesNo(lead.ECNR)},
		}},
		{Title: "Work Details", Fields: []export.Field{
			{Label: "Occupation", Value: lead.Occupation},
			{Label: "Place of Employment", Value: lead.PlaceOfEmployment},
			{Label: "Last Experience", Value: lead.LastExperience},
			{Label: "Last Salary & Post", Value: lead.LastSalaryPostDetails},
			{Label: "Expected Salary", Value: lead.ExpectedSalary},
			{Label: "Medical Report", Value: lead.MedicalReport},
			{Label: "Interview Status", Value: lead.InterviewStatus},
			{Label: "PCC Status", Value: lead.PCCStatus},
		}},
		{Title: "Office Use", Fields: []export.Field{
			{Label: "Service Charge", Value: lead.OfficeConfirmation.ServiceCharge},
			{Label: "Medical Charge", Value: lead.OfficeConfirmation.MedicalCharge},
			{Label: "Transferred By", Value: transferredBy},
			{Label: "Transferred Date", Value: row.TransferredDate},
		}},
	}

	status := export.Section{Title: "Status", Fields: []export.Field{
		{Label: "Stage", Value: string(detail.Lifecycle.Stage)},
		{Label: "Note", Value: detail.Lifecycle.Banner},
	}}
	for _, entry := range detail.Lifecycle.Options {
		value := "Awaiting response"
		if entry.Option.Job != nil {
			value = firstNonBlank(entry.Option.Job.JobTitle, entry.Option.Job.ID, "Answered")
			if country := entry.Option.Job.CountryName(); country != "" {
				value += " - " + country
			}
		}
		status.Fields = append(status.Fields, export.Field{Label: fmt.Sprintf("Option %d", entry.Index), Value: value})
	}
	return append(sections, status)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
