package audit

import (
	"time"

	"github.com/umalmyha/rentals/internal/model"
)

// EventType is kind of compliance event
type EventType string

const (
	EventLogin         EventType = "auth.login"
	EventLogout        EventType = "auth.logout"
	EventLoginFailed   EventType = "auth.login_failed"
	EventPasswordReset EventType = "auth.password_reset"
	EventMFAEnabled    EventType = "auth.mfa_enabled"

	EventDataAccess   EventType = "data.access"
	EventDataExport   EventType = "data.export"
	EventDataDownload EventType = "data.download"

	EventDataCreate    EventType = "data.create"
	EventDataUpdate    EventType = "data.update"
	EventDataDelete    EventType = "data.delete"
	EventDataAnonymize EventType = "data.anonymize"

	EventConsentGranted EventType = "consent.granted"
	EventConsentRevoked EventType = "consent.revoked"
	EventConsentUpdated EventType = "consent.updated"

	EventAdminAccess  EventType = "admin.access"
	EventAdminModify  EventType = "admin.modify"
	EventConfigChange EventType = "admin.config_change"

	EventSecurityAlert    EventType = "security.alert"
	EventPermissionDenied EventType = "security.permission_denied"
	EventRateLimit        EventType = "security.rate_limit"

	EventContractCreated  EventType = "business.contract_created"
	EventContractSigned   EventType = "business.contract_signed"
	EventPaymentProcessed EventType = "business.payment_processed"
	EventVehicleReserved  EventType = "business.vehicle_reserved"
)

var knownEventTypes = map[EventType]struct{}{
	EventLogin: {}, EventLogout: {}, EventLoginFailed: {}, EventPasswordReset: {}, EventMFAEnabled: {},
	EventDataAccess: {}, EventDataExport: {}, EventDataDownload: {},
	EventDataCreate: {}, EventDataUpdate: {}, EventDataDelete: {}, EventDataAnonymize: {},
	EventConsentGranted: {}, EventConsentRevoked: {}, EventConsentUpdated: {},
	EventAdminAccess: {}, EventAdminModify: {}, EventConfigChange: {},
	EventSecurityAlert: {}, EventPermissionDenied: {}, EventRateLimit: {},
	EventContractCreated: {}, EventContractSigned: {}, EventPaymentProcessed: {}, EventVehicleReserved: {},
}

// Valid reports whether event type is known
func (t EventType) Valid() bool {
	_, ok := knownEventTypes[t]
	return ok
}

// Severity is event importance
type Severity string

const (
	SeverityDebug    Severity = "debug"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Result is outcome of audited operation
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultPartial Result = "partial"
)

// Event is append-only compliance log entry, empty optional fields are stored as null
type Event struct {
	ID        string    `json:"id" bson:"_id" validate:"required,uuid"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp" validate:"required"`
	EventType EventType `json:"eventType" bson:"eventType" validate:"required,audit_event_type"`
	Severity  Severity  `json:"severity" bson:"severity" validate:"required,oneof=debug info warning error critical"`

	UserID    string `json:"userId,omitempty" bson:"userId,omitempty"`
	UserEmail string `json:"userEmail,omitempty" bson:"userEmail,omitempty" validate:"omitempty,email"`
	UserRole  string `json:"userRole,omitempty" bson:"userRole,omitempty"`
	SessionID string `json:"sessionId,omitempty" bson:"sessionId,omitempty"`

	IPAddress     string `json:"ipAddress,omitempty" bson:"ipAddress,omitempty" validate:"omitempty,ip"`
	UserAgent     string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	RequestID     string `json:"requestId,omitempty" bson:"requestId,omitempty" validate:"omitempty,uuid"`
	RequestMethod string `json:"requestMethod,omitempty" bson:"requestMethod,omitempty"`
	RequestPath   string `json:"requestPath,omitempty" bson:"requestPath,omitempty"`

	ResourceType string `json:"resourceType,omitempty" bson:"resourceType,omitempty"`
	ResourceID   string `json:"resourceId,omitempty" bson:"resourceId,omitempty"`
	Action       string `json:"action" bson:"action" validate:"required,max=1000"`
	Result       Result `json:"result" bson:"result" validate:"required,oneof=success failure partial"`
	ErrorMessage string `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`

	DataCategory   model.DataCategory `json:"dataCategory,omitempty" bson:"dataCategory,omitempty" validate:"omitempty,oneof=personal sensitive financial behavioral technical"`
	LegalBasis     model.LegalBasis   `json:"legalBasis,omitempty" bson:"legalBasis,omitempty" validate:"omitempty,oneof=consent contract legal_obligation vital_interests public_task legitimate_interests"`
	AffectedFields []string           `json:"affectedFields,omitempty" bson:"affectedFields,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`

	Canton         string `json:"canton,omitempty" bson:"canton,omitempty" validate:"omitempty,len=2"`
	OrganizationID string `json:"organizationId,omitempty" bson:"organizationId,omitempty"`
}

// ForActor builds event of type t carrying actor identity and request context
func ForActor(t EventType, actor model.Actor, action string) Event {
	return Event{
		EventType: t,
		Action:    action,
		UserID:    actor.ID,
		UserEmail: actor.Email,
		UserRole:  string(actor.Role),
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
		RequestID: actor.RequestID,
	}
}

// PersonalData builds event of actor processing data of category under legal basis
func PersonalData(t EventType, actor model.Actor, action string, category model.DataCategory, basis model.LegalBasis) Event {
	e := ForActor(t, actor, action)
	e.DataCategory = category
	e.LegalBasis = basis
	return e
}

// SecurityAlert builds failed operation event with error severity
func SecurityAlert(actor model.Actor, action string, err error) Event {
	e := ForActor(EventSecurityAlert, actor, action)
	e.Severity = SeverityError
	e.Result = ResultFailure
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	return e
}

// Filter narrows event query
type Filter struct {
	From       *time.Time
	To         *time.Time
	UserID     string
	EventType  EventType
	Severity   Severity
	ResourceID string
	Limit      int
}
