package dto

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/previsa-console/internal/models"
)

// Placeholder is rendered for absent values.
const Placeholder = "-"

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a charge the way the job grid shows it, e.g. "1,500.00".
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

// JobRow is one line of the job grid.
type JobRow struct {
	ID                 string    `json:"id"`
	JobTitle           string    `json:"jobTitle"`
	Description        string    `json:"description"`
	WorkTime           string    `json:"workTime"`
	CountryID          string    `json:"countryId"`
	CountryName        string    `json:"countryName"`
	CountryMissing     bool      `json:"countryMissing"`
	Salary             string    `json:"salary"`
	ServiceCharge      string    `json:"serviceCharge"`
	AdminCharge        string    `json:"adminCharge"`
	SalaryValue        *float64  `json:"salaryValue,omitempty"`
	ServiceChargeValue float64   `json:"serviceChargeValue"`
	AdminChargeValue   float64   `json:"adminChargeValue"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewJobRow formats a job for display. A job whose country is not populated is flagged instead of read blindly.
func NewJobRow(job models.Job) JobRow {
	row := JobRow{
		ID:                 job.ID,
		JobTitle:           job.JobTitle,
		Description:        job.Description,
		WorkTime:           Placeholder,
		CountryName:        Placeholder,
		Salary:             Placeholder,
		ServiceCharge:      FormatAmount(job.ServiceCharge),
		AdminCharge:        FormatAmount(job.AdminCharge),
		SalaryValue:        job.Salary,
		ServiceChargeValue: job.ServiceCharge,
		AdminChargeValue:   job.AdminCharge,
		CreatedAt:          job.CreatedAt,
	}
	if job.WorkTime != "" {
		row.WorkTime = job.WorkTime
	}
	if job.Salary != nil && *job.Salary != 0 {
		row.Salary = FormatAmount(*job.Salary)
	}
	if job.Country != nil {
		row.CountryID = job.Country.ID
	}
	if name := job.CountryName(); name != "" {
		row.CountryName = name
	} else {
		row.CountryMissing = true
	}
	return row
}

// NewJobRows formats a job list.
func NewJobRows(jobs []models.Job) []JobRow {
	rows := make([]JobRow, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, NewJobRow(job))
	}
	return rows
}

// AssignableJob is an entry of the option dialog's job picker.
type AssignableJob struct {
	ID             string `json:"id"`
	JobTitle       string `json:"jobTitle"`
	CountryName    string `json:"countryName"`
	CountryMissing bool   `json:"countryMissing"`
	DisplayText    string `json:"displayText"`
}

// NewAssignableJob labels a job as "<title> - <country>".
func NewAssignableJob(job models.Job) AssignableJob {
	country := job.CountryName()
	item := AssignableJob{ID: job.ID, JobTitle: job.JobTitle, CountryName: country}
	if country == "" {
		item.CountryMissing = true
		country = Placeholder
	}
	item.DisplayText = job.JobTitle + " - " + country
	return item
}
