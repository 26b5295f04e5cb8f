package models

import "time"

// CountryRef is the country a job points at. Only ID is guaranteed; the name is present when the backend populates it.
type CountryRef struct {
	ID          string `json:"id"`
	CountryName string `json:"countryName,omitempty"`
}

// Job is an opening that can be offered to a lead as an option.
type Job struct {
	ID            string      `json:"id"`
	JobTitle      string      `json:"jobTitle"`
	Description   string      `json:"description,omitempty"`
	WorkTime      string      `json:"workTime,omitempty"`
	Salary        *float64    `json:"salary,omitempty"`
	ServiceCharge float64     `json:"serviceCharge"`
	AdminCharge   float64     `json:"adminCharge"`
	Country       *CountryRef `json:"country,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// CountryName returns the populated country name or an empty string.
func (j Job) CountryName() string {
	if j.Country == nil {
		return ""
	}
	return j.Country.CountryName
}

// JobRequest is the payload for creating or editing a job.
type JobRequest struct {
	JobTitle      string   `json:"jobTitle" validate:"required"`
	Description   string   `json:"description"`
	WorkTime      string   `json:"workTime"`
	Salary        *float64 `json:"salary" validate:"omitempty,gte=0"`
	ServiceCharge *float64 `json:"serviceCharge" validate:"required,gte=0"`
	AdminCharge   *float64 `json:"adminCharge" validate:"required,gte=0"`
	Country       string   `json:"country" validate:"required"`
}
