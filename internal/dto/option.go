package dto

import (
	"time"
	"unicode/utf8"

	"github.com/noah-isme/previsa-console/internal/models"
)

// PreviewLength bounds the request message shown in the pending list.
const PreviewLength = 50

// PendingOptionRow is one lead waiting for this manager to attach a job.
type PendingOptionRow struct {
	OptionID       string    `json:"optionId"`
	LeadID         string    `json:"leadId"`
	LeadName       string    `json:"leadName"`
	RequestedBy    string    `json:"requestedBy"`
	RequestMessage string    `json:"requestMessage"`
	MessagePreview string    `json:"messagePreview"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewPendingOptionRow formats a pending option.
func NewPendingOptionRow(opt models.Option) PendingOptionRow {
	leadName := opt.Lead.FullName
	if leadName == "" {
		leadName = opt.Lead.ID
	}
	if leadName == "" {
		leadName = "Unknown Form"
	}
	requester := opt.RequestedBy.Name
	if requester == "" {
		requester = "Unknown User"
	}
	return PendingOptionRow{
		OptionID:       opt.ID,
		LeadID:         opt.Lead.ID,
		LeadName:       leadName,
		RequestedBy:    requester,
		RequestMessage: opt.RequestMessage,
		MessagePreview: Preview(opt.RequestMessage, PreviewLength),
		CreatedAt:      opt.CreatedAt,
	}
}

// Preview shortens text to limit runes followed by "...".
func Preview(text string, limit int) string {
	if text == "" {
		return "No message"
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
