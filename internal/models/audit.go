package models

import "time"

// Audit actions
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"
	AuditActionExport = "EXPORT"
)

// Audit resources
const (
	AuditResourceApplication = "application"
	AuditResourceReview      = "application_review"
	AuditResourceRole        = "user_role"
	AuditResourceProfile     = "profile"
	AuditResourceSession     = "session"
)

// AuditLog records an administrative or account mutation
type AuditLog struct {
	ID         string            `bson:"_id" json:"id"`
	Action     string            `bson:"action" json:"action"`
	Resource   string            `bson:"resource" json:"resource"`
	ResourceID string            `bson:"resource_id" json:"resource_id"`
	OldValue   interface{}       `bson:"old_value,omitempty" json:"old_value,omitempty"`
	NewValue   interface{}       `bson:"new_value,omitempty" json:"new_value,omitempty"`
	UserID     string            `bson:"user_id,omitempty" json:"user_id,omitempty"`
	IPAddress  string            `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent  string            `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	RequestID  string            `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Timestamp  time.Time         `bson:"timestamp" json:"timestamp"`
	Metadata   map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// AuditContext identifies who performed an audited action
type AuditContext struct {
	UserID    string
	IPAddress string
	UserAgent string
	RequestID string
}
