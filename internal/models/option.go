package models

import "time"

// LeadRef is the lead an option belongs to, populated with the applicant name when available.
type LeadRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
}

// Option is one job offer requested for a lead. It is answered once Job is set.
type Option struct {
	ID              string    `json:"id"`
	Lead            LeadRef   `json:"lead"`
	RequestedBy     Manager   `json:"requestedBy"`
	RequestedTo     Manager   `json:"requestedTo"`
	RequestMessage  string    `json:"requestMessage,omitempty"`
	Job             *Job      `json:"job,omitempty"`
	ResponseMessage string    `json:"responseMessage,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Answered reports whether a job has been attached to the option. The attached job may carry
// no id when the backend sent it in an unexpected shape.
func (o Option) Answered() bool {
	return o.Job != nil
}

// OptionFilter narrows the pending options list.
type OptionFilter struct {
	Search string
}

// SubmitOptionRequest answers the open option of a lead with a job.
type SubmitOptionRequest struct {
	JobID           string `json:"jobId"`
	ResponseMessage string `json:"responseMessage"`
}
