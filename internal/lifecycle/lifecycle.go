// Package lifecycle derives the display state of a lead and the actions staff may take on it.
//
// Nothing here is stored: every View is computed from the lead record and its option history
// exactly as the backend returned them.
package lifecycle

import (
	"errors"
	"strings"

	"github.com/noah-isme/previsa-console/internal/models"
)

// Stage is the tagged state of a lead.
type Stage string

const (
	StageNoOptions   Stage = "NO_OPTIONS"
	StageAwaiting    Stage = "AWAITING_RESPONSE"
	StageAnswered    Stage = "ANSWERED"
	StageTransferred Stage = "TRANSFERRED"
	StageRejected    Stage = "REJECTED"
)

// Terminal reports whether no further transfer or rejection is possible.
func (s Stage) Terminal() bool {
	return s == StageTransferred || s == StageRejected
}

// TransferredBanner is shown instead of the transfer and reject controls once a lead has moved on.
const TransferredBanner = "File already transferred to Final Visa Manager - not rejectable."

// RejectedBanner is shown once the backend reports the lead as rejected.
const RejectedBanner = "This form has been rejected."

var (
	ErrNoOption        = errors.New("no option available to update")
	ErrOptionAnswered  = errors.New("latest option already answered")
	ErrAlreadyTransfer = errors.New("lead already transferred to final visa manager")
	ErrAlreadyRejected = errors.New("lead has already been rejected")
)

// ActionState says whether an action is offered and, if not, why.
type ActionState struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Actions lists the controls the detail view offers.
type Actions struct {
	SubmitOption ActionState `json:"submitOption"`
	Transfer     ActionState `json:"transfer"`
	Reject       ActionState `json:"reject"`
}

// OptionEntry is one item of the option history accordion.
type OptionEntry struct {
	Index    int           `json:"index"`
	Answered bool          `json:"answered"`
	Option   models.Option `json:"option"`
}

// View is the immutable lifecycle value for one lead.
type View struct {
	LeadID      string        `json:"leadId"`
	Stage       Stage         `json:"stage"`
	OptionStage Stage         `json:"optionStage"`
	Banner      string        `json:"banner,omitempty"`
	OpenSlot    string        `json:"openSlot,omitempty"`
	Options     []OptionEntry `json:"options"`
	Actions     Actions       `json:"actions"`
}

// Derive computes the view for a lead and its option history (oldest first, as the backend returned it).
func Derive(lead models.Lead, options []models.Option) View {
	optionStage := OptionStage(options)

	view := View{
		LeadID:      lead.ID,
		Stage:       optionStage,
		OptionStage: optionStage,
		Options:     make([]OptionEntry, 0, len(options)),
	}
	for i, opt := range options {
		view.Options = append(view.Options, OptionEntry{Index: i + 1, Answered: opt.Answered(), Option: opt})
	}

	if slot, err := OpenSlot(options); err == nil {
		view.OpenSlot = slot.ID
		view.Actions.SubmitOption = ActionState{Allowed: true}
	} else {
		view.Actions.SubmitOption = ActionState{Reason: err.Error()}
	}

	switch {
	case IsRejected(lead):
		view.Stage = StageRejected
		view.Banner = RejectedBanner
		view.Actions.Transfer = ActionState{Reason: ErrAlreadyRejected.Error()}
		view.Actions.Reject = ActionState{Reason: ErrAlreadyRejected.Error()}
	case lead.TransferredToFinalVisaManager:
		view.Stage = StageTransferred
		view.Banner = TransferredBanner
		view.Actions.Transfer = ActionState{Reason: TransferredBanner}
		view.Actions.Reject = ActionState{Reason: TransferredBanner}
	default:
		view.Actions.Transfer = ActionState{Allowed: true}
		view.Actions.Reject = ActionState{Allowed: true}
	}

	return view
}

// OptionStage derives the stage from the option history alone.
func OptionStage(options []models.Option) Stage {
	latest, ok := Latest(options)
	switch {
	case !ok:
		return StageNoOptions
	case latest.Answered():
		return StageAnswered
	default:
		return StageAwaiting
	}
}

// Latest returns the most recently created option, which is the last one in backend order.
func Latest(options []models.Option) (models.Option, bool) {
	if len(options) == 0 {
		return models.Option{}, false
	}
	return options[len(options)-1], true
}

// OpenSlot returns the option a submit should fill in.
func OpenSlot(options []models.Option) (models.Option, error) {
	latest, ok := Latest(options)
	if !ok {
		return models.Option{}, ErrNoOption
	}
	if latest.Answered() {
		return models.Option{}, ErrOptionAnswered
	}
	return latest, nil
}

// CanTransfer checks the lead may still be forwarded to Final Visa.
func CanTransfer(lead models.Lead) error {
	if IsRejected(lead) {
		return ErrAlreadyRejected
	}
	if lead.TransferredToFinalVisaManager {
		return ErrAlreadyTransfer
	}
	return nil
}

// CanReject checks the lead may still be rejected.
func CanReject(lead models.Lead) error {
	return CanTransfer(lead)
}

// IsRejected reads the rejection markers the backend may set on a client form.
func IsRejected(lead models.Lead) bool {
	return lead.Rejected || strings.EqualFold(strings.TrimSpace(lead.Status), "rejected")
}

// PendingFor keeps the options requested to managerID that have not been answered, preserving order.
func PendingFor(managerID string, options []models.Option) []models.Option {
	pending := make([]models.Option, 0, len(options))
	for _, opt := range options {
		if opt.RequestedTo.ID == managerID && !opt.Answered() {
			pending = append(pending, opt)
		}
	}
	return pending
}

// IsPending reports whether leadID waits on managerID.
func IsPending(managerID, leadID string, options []models.Option) bool {
	for _, opt := range PendingFor(managerID, options) {
		if opt.Lead.ID == leadID {
			return true
		}
	}
	return false
}

// WithoutLead drops every option attached to leadID.
func WithoutLead(leadID string, options []models.Option) []models.Option {
	kept := make([]models.Option, 0, len(options))
	for _, opt := range options {
		if opt.Lead.ID != leadID {
			kept = append(kept, opt)
		}
	}
	return kept
}
