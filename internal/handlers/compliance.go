package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/rentals/internal/audit"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/middleware"
	"github.com/umalmyha/rentals/internal/service"
)

const defaultReportPeriod = 30 * 24 * time.Hour

// AuditReader reads persisted compliance events, implemented by audit.Logger
type AuditReader interface {
	Query(context.Context, audit.Filter) ([]audit.Event, error)
	ComplianceReport(ctx context.Context, from, to time.Time) (*audit.Report, error)
}

type auditEventsQuery struct {
	From       string `json:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To         string `json:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	UserID     string `json:"userId" validate:"omitempty,max=100"`
	EventType  string `json:"eventType" validate:"omitempty,max=100"`
	Severity   string `json:"severity" validate:"omitempty,oneof=debug info warning error critical"`
	ResourceID string `json:"resourceId" validate:"omitempty,max=100"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

type retentionRunResponse struct {
	Deleted    int `json:"deleted"`
	Anonymized int `json:"anonymized"`
	Retained   int `json:"retained"`
}

// ComplianceHTTPHandler is http handler for retention and audit endpoints
type ComplianceHTTPHandler struct {
	retentionSvc service.RetentionService
	auditReader  AuditReader
	now          func() time.Time
}

// NewComplianceHTTPHandler builds new ComplianceHTTPHandler
func NewComplianceHTTPHandler(retentionSvc service.RetentionService, auditReader AuditReader) *ComplianceHTTPHandler {
	return &ComplianceHTTPHandler{
		retentionSvc: retentionSvc,
		auditReader:  auditReader,
		now:          time.Now,
	}
}

// PostRetentionRun runs retention
// @Summary     Run data retention
// @Description Applies retention policies to expired records immediately, manager role required
// @Tags        retention
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200    {object} retentionRunResponse
// @Failure     403    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/retention/run [post]
func (h *ComplianceHTTPHandler) PostRetentionRun(c echo.Context) error {
	if !middleware.ActorFrom(c).Role.IsElevated() {
		return apperrors.NewPermissionErr("retention", "Manager approval required for data retention processing")
	}

	res, err := h.retentionSvc.Run(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &retentionRunResponse{
		Deleted:    len(res.Deleted),
		Anonymized: len(res.Anonymized),
		Retained:   len(res.Retained),
	})
}

// GetRetentionReport gets retention report
// @Summary     Retention compliance report
// @Description Returns retention policies with total, expired and soon expiring records per data category
// @Tags        retention
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200    {object} service.RetentionReport
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/retention/report [get]
func (h *ComplianceHTTPHandler) GetRetentionReport(c echo.Context) error {
	report, err := h.retentionSvc.ComplianceReport(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// GetAuditEvents gets compliance events
// @Summary     Query compliance events
// @Description Returns persisted compliance events matching filter, newest first
// @Tags        audit
// @Security	ApiKeyAuth
// @Produce     json
// @Param       from       query string false "Period start" Format(date-time)
// @Param       to         query string false "Period end" Format(date-time)
// @Param       userId     query string false "Actor id"
// @Param       eventType  query string false "Event type"
// @Param       severity   query string false "Severity"
// @Param       resourceId query string false "Resource id"
// @Param       limit      query int    false "Number of events, default 100"
// @Success     200    {array}  audit.Event
// @Failure     400    {object} echo.HTTPError
// @Failure     403    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/audit/events [get]
func (h *ComplianceHTTPHandler) GetAuditEvents(c echo.Context) error {
	if err := requireAuditAccess(c); err != nil {
		return err
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	q := auditEventsQuery{
		From:       c.QueryParam("from"),
		To:         c.QueryParam("to"),
		UserID:     c.QueryParam("userId"),
		EventType:  c.QueryParam("eventType"),
		Severity:   c.QueryParam("severity"),
		ResourceID: c.QueryParam("resourceId"),
		Limit:      limit,
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	f := audit.Filter{
		From:       parseOptionalTime(q.From),
		To:         parseOptionalTime(q.To),
		UserID:     q.UserID,
		EventType:  audit.EventType(q.EventType),
		Severity:   audit.Severity(q.Severity),
		ResourceID: q.ResourceID,
		Limit:      q.Limit,
	}

	events, err := h.auditReader.Query(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// GetAuditReport gets compliance report
// @Summary     Compliance report
// @Description Counts compliance events of period per event type, period defaults to last 30 days
// @Tags        audit
// @Security	ApiKeyAuth
// @Produce     json
// @Param       from   query string false "Period start" Format(date-time)
// @Param       to     query string false "Period end" Format(date-time)
// @Success     200    {object} audit.Report
// @Failure     400    {object} echo.HTTPError
// @Failure     403    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/audit/report [get]
func (h *ComplianceHTTPHandler) GetAuditReport(c echo.Context) error {
	if err := requireAuditAccess(c); err != nil {
		return err
	}

	q := auditEventsQuery{From: c.QueryParam("from"), To: c.QueryParam("to")}
	if err := c.Validate(&q); err != nil {
		return err
	}

	to := h.now().UTC()
	if t := parseOptionalTime(q.To); t != nil {
		to = *t
	}

	from := to.Add(-defaultReportPeriod)
	if t := parseOptionalTime(q.From); t != nil {
		from = *t
	}

	if from.After(to) {
		return apperrors.NewValidationErr("from", "period start must not be after its end")
	}

	report, err := h.auditReader.ComplianceReport(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// parseOptionalTime expects value already validated as RFC3339
func requireAuditAccess(c echo.Context) error {
	if !middleware.ActorFrom(c).Role.IsElevated() {
		return apperrors.NewPermissionErr("audit", "Manager approval required for compliance audit access")
	}
	return nil
}

func parseOptionalTime(v string) *time.Time {
	if v == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
