package models

import "time"

// Country is reference data a Job is offered in.
type Country struct {
	ID          string    `json:"id"`
	CountryName string    `json:"countryName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CountryRequest is the payload for creating or renaming a country.
type CountryRequest struct {
	CountryName string `json:"countryName" validate:"required"`
}
