package models

import "time"

// AuditAction constants represent console actions to be logged.
const (
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
	AuditActionCountryCreate = "COUNTRY_CREATE"
	AuditActionCountryUpdate = "COUNTRY_UPDATE"
	AuditActionCountryDelete = "COUNTRY_DELETE"
	AuditActionJobCreate     = "JOB_CREATE"
	AuditActionJobUpdate     = "JOB_UPDATE"
	AuditActionJobDelete     = "JOB_DELETE"
	AuditActionOptionSubmit  = "OPTION_SUBMIT"
	AuditActionLeadTransfer  = "LEAD_TRANSFER"
	AuditActionLeadReject    = "LEAD_REJECT"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ManagerID  *string   `db:"manager_id" json:"manager_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
