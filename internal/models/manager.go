package models

// Manager identifies a staff member: a Final Visa manager, a requester or a staff head.
type Manager struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
