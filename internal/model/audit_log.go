package model

import "time"

// CustomerAuditAction is kind of change recorded in customer audit trail
type CustomerAuditAction string

const (
	AuditActionCreate          CustomerAuditAction = "CREATE"
	AuditActionUpdate          CustomerAuditAction = "UPDATE"
	AuditActionFlagAdded       CustomerAuditAction = "FLAG_ADDED"
	AuditActionFlagRemoved     CustomerAuditAction = "FLAG_REMOVED"
	AuditActionBlacklistAdd    CustomerAuditAction = "BLACKLIST_ADD"
	AuditActionBlacklistRemove CustomerAuditAction = "BLACKLIST_REMOVE"
	AuditActionVIPAdd          CustomerAuditAction = "VIP_ADD"
	AuditActionVIPRemove       CustomerAuditAction = "VIP_REMOVE"
	AuditActionAnonymize       CustomerAuditAction = "ANONYMIZE"
	AuditActionDelete          CustomerAuditAction = "DELETE"
)

// CustomerAuditLog is immutable record of single change made to customer
type CustomerAuditLog struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customerId"`
	UserID       string              `json:"userId"`
	Action       CustomerAuditAction `json:"action"`
	FieldChanged *string             `json:"fieldChanged"`
	OldValue     *string             `json:"oldValue"`
	NewValue     *string             `json:"newValue"`
	Reason       string              `json:"reason"`
	IPAddress    *string             `json:"ipAddress"`
	UserAgent    *string             `json:"userAgent"`
	CreatedAt    time.Time           `json:"createdAt"`
}
