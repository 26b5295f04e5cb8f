package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/backend"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

type transferPayload struct {
	ClientFormID       string `json:"clientFormId"`
	PreVisaManagerID   string `json:"preVisaManagerId"`
	FinalVisaManagerID string `json:"finalVisaManagerId"`
}

// LeadRepository talks to the backend client-form endpoints.
type LeadRepository struct {
	client Backend
}

// NewLeadRepository constructs a lead gateway.
func NewLeadRepository(client Backend) *LeadRepository {
	return &LeadRepository{client: client}
}

// Get loads one client form.
func (r *LeadRepository) Get(ctx context.Context, id string) (*models.Lead, error) {
	var payload entityPayload[backendLead]
	if err := r.client.Do(ctx, backend.Request{
		Operation: "leads.get",
		Method:    http.MethodGet,
		Path:      "/api/client-form/getbyId/" + backend.Segment(id),
	}, &payload); err != nil {
		return nil, err
	}
	if payload.Item.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lead not found")
	}
	lead := payload.Item.toModel()
	return &lead, nil
}

// ListForManager returns the leads assigned to a Pre-Visa manager, filtered by the backend search.
func (r *LeadRepository) ListForManager(ctx context.Context, managerID, search string) ([]models.Lead, error) {
	var payload listPayload[backendLead]
	if err := r.client.Do(ctx, backend.Request{
		Operation: "leads.for_manager",
		Method:    http.MethodGet,
		Path:      "/api/client-form/get-by-previsa/" + backend.Segment(managerID),
		Query:     backend.SearchQuery(search),
	}, &payload); err != nil {
		return nil, err
	}
	leads := make([]models.Lead, 0, len(payload.Items))
	for _, l := range payload.Items {
		leads = append(leads, l.toModel())
	}
	return leads, nil
}

// Transfer forwards a lead to a Final Visa manager and returns the backend message.
// A `success: false` acknowledgement is reported as an error carrying that message.
func (r *LeadRepository) Transfer(ctx context.Context, leadID, preVisaManagerID, finalVisaManagerID string) (string, error) {
	var ack ackPayload
	if err := r.client.Do(ctx, backend.Request{
		Operation: "leads.transfer",
		Method:    http.MethodPut,
		Path:      "/api/client-form/transfer-to-finalvisa",
		Body: transferPayload{
			ClientFormID:       leadID,
			PreVisaManagerID:   preVisaManagerID,
			FinalVisaManagerID: finalVisaManagerID,
		},
	}, &ack); err != nil {
		return "", err
	}
	if ack.Success == nil || !*ack.Success {
		message := ack.Message
		if message == "" {
			message = "Something went wrong"
		}
		return "", appErrors.New("BACKEND_REJECTED", http.StatusConflict, message)
	}
	return ack.Message, nil
}

// Reject marks a lead as rejected and returns the backend message.
func (r *LeadRepository) Reject(ctx context.Context, leadID string) (string, error) {
	var ack ackPayload
	if err := r.client.Do(ctx, backend.Request{
		Operation: "leads.reject",
		Method:    http.MethodPut,
		Path:      "/api/client-form/reject/" + backend.Segment(leadID),
	}, &ack); err != nil {
		return "", err
	}
	return ack.Message, nil
}
