package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/umalmyha/rentals/internal/middleware"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/risk"
	"github.com/umalmyha/rentals/internal/service"
	"github.com/umalmyha/rentals/internal/swiss"
)

type identifier struct {
	ID string `json:"id" validate:"required,uuid"`
}

type newCustomer struct {
	OrganizationID       string             `json:"organizationId" validate:"required,uuid"`
	FirstName            string             `json:"firstName" validate:"required,max=100"`
	LastName             string             `json:"lastName" validate:"required,max=100"`
	Email                string             `json:"email" validate:"required,email"`
	Phone                string             `json:"phone" validate:"required,swiss_phone"`
	DateOfBirth          *time.Time         `json:"dateOfBirth"`
	DocumentType         swiss.DocumentType `json:"documentType" validate:"required,swiss_document"`
	DocumentNumber       string             `json:"documentNumber" validate:"required,max=20"`
	DocumentExpiry       *time.Time         `json:"documentExpiry"`
	DriversLicenseNumber *string            `json:"driversLicenseNumber" validate:"omitempty,max=20"`
	DriversLicenseExpiry *time.Time         `json:"driversLicenseExpiry"`
	Street               string             `json:"street" validate:"required,max=200"`
	City                 string             `json:"city" validate:"required,max=100"`
	Canton               string             `json:"canton" validate:"omitempty,canton"`
	PostalCode           string             `json:"postalCode" validate:"required,swiss_postal"`
	Country              string             `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Notes                *string            `json:"notes" validate:"omitempty,max=2000"`
	GDPRConsentVersion   *string            `json:"gdprConsentVersion" validate:"omitempty,max=20"`
	MarketingConsent     bool               `json:"marketingConsent"`
}

type updateCustomer struct {
	ID                   string              `param:"id" json:"-" validate:"required,uuid"`
	FirstName            *string             `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName             *string             `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email                *string             `json:"email" validate:"omitempty,email"`
	Phone                *string             `json:"phone" validate:"omitempty,swiss_phone"`
	DateOfBirth          *time.Time          `json:"dateOfBirth"`
	DocumentType         *swiss.DocumentType `json:"documentType" validate:"omitempty,swiss_document"`
	DocumentNumber       *string             `json:"documentNumber" validate:"omitempty,max=20"`
	DocumentExpiry       *time.Time          `json:"documentExpiry"`
	DriversLicenseNumber *string             `json:"driversLicenseNumber" validate:"omitempty,max=20"`
	DriversLicenseExpiry *time.Time          `json:"driversLicenseExpiry"`
	Street               *string             `json:"street" validate:"omitempty,min=1,max=200"`
	City                 *string             `json:"city" validate:"omitempty,min=1,max=100"`
	Canton               *string             `json:"canton" validate:"omitempty,canton"`
	PostalCode           *string             `json:"postalCode" validate:"omitempty,swiss_postal"`
	Country              *string             `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Notes                *string             `json:"notes" validate:"omitempty,max=2000"`
	MarketingConsent     *bool               `json:"marketingConsent"`
	Reason               string              `json:"reason" validate:"omitempty,max=500"`
}

type customersQuery struct {
	OrganizationID string `query:"organizationId" json:"organizationId" validate:"required,uuid"`
	Query          string `query:"q" json:"q" validate:"omitempty,max=100"`
	Page           int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit          int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type customersResponse struct {
	Data       []*model.Customer `json:"data"`
	Pagination pagination        `json:"pagination"`
}

type updateFlags struct {
	ID              string       `param:"id" json:"-" validate:"required,uuid"`
	Flags           []model.Flag `json:"flags" validate:"required,dive,flag"`
	Blacklisted     *bool        `json:"blacklisted"`
	BlacklistReason *string      `json:"blacklistReason" validate:"omitempty,max=500"`
	BlacklistExpiry *time.Time   `json:"blacklistExpiry"`
	VIPStatus       *bool        `json:"vipStatus"`
	PaymentRisk     *bool        `json:"paymentRisk"`
	DamageRisk      *bool        `json:"damageRisk"`
	SpecialNeeds    *string      `json:"specialNeeds" validate:"omitempty,max=1000"`
	Reason          string       `json:"reason" validate:"required,max=500"`
}

type eraseCustomer struct {
	ID         string `param:"id" validate:"required,uuid"`
	HardDelete bool   `query:"hardDelete"`
}

type auditLogsQuery struct {
	ID    string `param:"id" validate:"required,uuid"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=200"`
}

type expiringDocumentsQuery struct {
	OrganizationID string `query:"organizationId" json:"organizationId" validate:"required,uuid"`
}

type flagsResponse struct {
	Customer *model.Customer      `json:"customer"`
	Changes  []service.FlagChange `json:"changes"`
}

type erasureResponse struct {
	CustomerID  string `json:"customerId"`
	HardDeleted bool   `json:"hardDeleted"`
	Message     string `json:"message"`
}

type paymentHistory struct {
	Score          int             `json:"score"`
	CompletionRate int             `json:"completionRate"`
	Flagged        bool            `json:"flagged"`
	TotalOwed      decimal.Decimal `json:"totalOwed"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
}

type damageHistory struct {
	Score            int             `json:"score"`
	TotalIncidents   int             `json:"totalIncidents"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	AveragePerRental decimal.Decimal `json:"averagePerRental"`
	Flagged          bool            `json:"flagged"`
}

type riskAssessment struct {
	CustomerID      string         `json:"customerId"`
	OverallScore    int            `json:"overallScore"`
	RiskLevel       risk.Level     `json:"riskLevel"`
	PaymentHistory  paymentHistory `json:"paymentHistory"`
	DamageHistory   damageHistory  `json:"damageHistory"`
	Recommendations []string       `json:"recommendations"`
}

type expiringDocuments struct {
	Total    int                       `json:"total"`
	Expired  int                       `json:"expired"`
	Critical int                       `json:"critical"`
	Warning  int                       `json:"warning"`
	Items    []service.DocumentWarning `json:"items"`
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
	flagSvc     service.FlagService
	riskSvc     service.RiskService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService, flagSvc service.FlagService, riskSvc service.RiskService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{
		customerSvc: customerSvc,
		flagSvc:     flagSvc,
		riskSvc:     riskSvc,
	}
}

// Get gets customer
// @Summary     Get single customer by id
// @Description Returns single customer with masked documents, email and phone
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} model.Customer
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer.Masked())
}

// GetAll searches customers
// @Summary     Search customers
// @Description Returns page of organization customers matching name, email, phone or document number, most recently updated first
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       organizationId query string true  "Organization guid" Format(uuid)
// @Param       q              query string false "Search term"
// @Param       page           query int    false "Page number, default 1"
// @Param       limit          query int    false "Page size, default 20"
// @Success     200    {object} customersResponse
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	var q customersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.customerSvc.FindAll(c.Request().Context(), service.CustomerQuery{
		OrganizationID: q.OrganizationID,
		Query:          q.Query,
		Page:           q.Page,
		Limit:          q.Limit,
	})
	if err != nil {
		return err
	}

	masked := make([]*model.Customer, 0, len(page.Customers))
	for _, customer := range page.Customers {
		masked = append(masked, customer.Masked())
	}

	return c.JSON(http.StatusOK, &customersResponse{
		Data: masked,
		Pagination: pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// Post creates new customer
// @Summary     New Customer
// @Description Validates Swiss specific fields and registers customer unless duplicate exists within organization
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param 		newCustomer body	 newCustomer true "Data for new customer"
// @Success     201    		{object} model.Customer
// @Failure     400    		{object} echo.HTTPError
// @Failure     409    		{object} echo.HTTPError
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/v1/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), service.NewCustomer{
		OrganizationID:       nc.OrganizationID,
		FirstName:            nc.FirstName,
		LastName:             nc.LastName,
		Email:                nc.Email,
		Phone:                nc.Phone,
		DateOfBirth:          nc.DateOfBirth,
		DocumentType:         nc.DocumentType,
		DocumentNumber:       nc.DocumentNumber,
		DocumentExpiry:       nc.DocumentExpiry,
		DriversLicenseNumber: nc.DriversLicenseNumber,
		DriversLicenseExpiry: nc.DriversLicenseExpiry,
		Street:               nc.Street,
		City:                 nc.City,
		Canton:               nc.Canton,
		PostalCode:           nc.PostalCode,
		Country:              nc.Country,
		Notes:                nc.Notes,
		GDPRConsentVersion:   nc.GDPRConsentVersion,
		MarketingConsent:     nc.MarketingConsent,
	}, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer.Masked())
}

// Put updates customer profile
// @Summary     Update customer profile
// @Description Updates provided profile fields, each changed field is recorded in customer audit trail
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id             path 	string         true "Customer guid" Format(uuid)
// @Param 		updateCustomer body	    updateCustomer true "Profile changes"
// @Success     200    		{object} model.Customer
// @Failure     400    		{object} echo.HTTPError
// @Failure     404    		{object} echo.HTTPError
// @Failure     409    		{object} echo.HTTPError
// @Failure     422    		{object} echo.HTTPError
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/v1/customers/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	var uc updateCustomer
	if err := c.Bind(&uc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Update(c.Request().Context(), uc.ID, service.CustomerUpdate{
		FirstName:            uc.FirstName,
		LastName:             uc.LastName,
		Email:                uc.Email,
		Phone:                uc.Phone,
		DateOfBirth:          uc.DateOfBirth,
		DocumentType:         uc.DocumentType,
		DocumentNumber:       uc.DocumentNumber,
		DocumentExpiry:       uc.DocumentExpiry,
		DriversLicenseNumber: uc.DriversLicenseNumber,
		DriversLicenseExpiry: uc.DriversLicenseExpiry,
		Street:               uc.Street,
		City:                 uc.City,
		Canton:               uc.Canton,
		PostalCode:           uc.PostalCode,
		Country:              uc.Country,
		Notes:                uc.Notes,
		MarketingConsent:     uc.MarketingConsent,
		Reason:               uc.Reason,
	}, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer.Masked())
}

// DeleteByID erases customer
// @Summary     GDPR erase customer
// @Description Anonymizes customer in place, or deletes customer without contract history when hardDelete is set
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id         path  string true  "Customer guid" Format(uuid)
// @Param       hardDelete query bool   false "Delete instead of anonymize"
// @Success     200    {object} erasureResponse
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     422    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	var ec eraseCustomer
	if err := c.Bind(&ec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&ec); err != nil {
		return err
	}

	res, err := h.customerSvc.Erase(c.Request().Context(), ec.ID, ec.HardDelete, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	msg := "Customer data anonymized"
	if res.HardDeleted {
		msg = "Customer deleted"
	}

	return c.JSON(http.StatusOK, &erasureResponse{
		CustomerID:  res.CustomerID,
		HardDeleted: res.HardDeleted,
		Message:     msg,
	})
}

// PutFlags updates customer flags
// @Summary     Update customer flags
// @Description Replaces flags and updates blacklist, VIP and risk markers. Blacklist changes require manager role
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id          path 	 string      true "Customer guid" Format(uuid)
// @Param 		updateFlags body	 updateFlags true "Flags update"
// @Success     200    		{object} flagsResponse
// @Failure     400    		{object} echo.HTTPError
// @Failure     403    		{object} echo.HTTPError
// @Failure     404    		{object} echo.HTTPError
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/v1/customers/{id}/flags [put]
func (h *CustomerHTTPHandler) PutFlags(c echo.Context) error {
	var uf updateFlags
	if err := c.Bind(&uf); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uf); err != nil {
		return err
	}

	res, err := h.flagSvc.UpdateFlags(c.Request().Context(), uf.ID, service.FlagsUpdate{
		Flags:           uf.Flags,
		Blacklisted:     uf.Blacklisted,
		BlacklistReason: uf.BlacklistReason,
		BlacklistExpiry: uf.BlacklistExpiry,
		VIPStatus:       uf.VIPStatus,
		PaymentRisk:     uf.PaymentRisk,
		DamageRisk:      uf.DamageRisk,
		SpecialNeeds:    uf.SpecialNeeds,
		Reason:          uf.Reason,
	}, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &flagsResponse{
		Customer: res.Customer.Masked(),
		Changes:  res.Changes,
	})
}

// GetRiskAssessment assesses customer risk
// @Summary     Customer risk assessment
// @Description Computes payment and damage risk from contract history
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} riskAssessment
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers/{id}/risk-assessment [get]
func (h *CustomerHTTPHandler) GetRiskAssessment(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	a, err := h.riskSvc.Assess(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &riskAssessment{
		CustomerID:   a.CustomerID,
		OverallScore: risk.Round(a.OverallScore),
		RiskLevel:    a.Level,
		PaymentHistory: paymentHistory{
			Score:          risk.Round(a.Payment.Score),
			CompletionRate: risk.Round(a.Payment.CompletionRate),
			Flagged:        a.Payment.Flagged,
			TotalOwed:      a.Payment.TotalOwed,
			TotalPaid:      a.Payment.TotalPaid,
		},
		DamageHistory: damageHistory{
			Score:            risk.Round(a.Damage.Score),
			TotalIncidents:   a.Damage.TotalIncidents,
			TotalCost:        a.Damage.TotalCost,
			AveragePerRental: decimal.NewFromFloat(a.Damage.AveragePerRental).Round(2),
			Flagged:          a.Damage.Flagged,
		},
		Recommendations: a.Recommendations,
	})
}

// GetAuditLogs gets customer audit trail
// @Summary     Customer audit trail
// @Description Returns latest changes made to customer, newest first
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true  "Customer guid" Format(uuid)
// @Param       limit  query 	int    false "Number of entries, default 20"
// @Success     200    {array}  model.CustomerAuditLog
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers/{id}/audit-logs [get]
func (h *CustomerHTTPHandler) GetAuditLogs(c echo.Context) error {
	var q auditLogsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	logs, err := h.customerSvc.FindAuditLogs(c.Request().Context(), q.ID, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}

// GetExpiringDocuments gets expiring documents
// @Summary     Expiring documents
// @Description Lists identity documents and driver licenses of organization which expired or expire within 30 days
// @Tags        documents
// @Security	ApiKeyAuth
// @Produce     json
// @Param       organizationId query string true "Organization guid" Format(uuid)
// @Success     200    {object} expiringDocuments
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/documents/expiring [get]
func (h *CustomerHTTPHandler) GetExpiringDocuments(c echo.Context) error {
	q := expiringDocumentsQuery{OrganizationID: c.QueryParam("organizationId")}
	if err := c.Validate(&q); err != nil {
		return err
	}

	warnings, err := h.customerSvc.ExpiringDocuments(c.Request().Context(), q.OrganizationID)
	if err != nil {
		return err
	}

	res := expiringDocuments{Total: len(warnings), Items: warnings}
	for _, w := range warnings {
		switch w.Level {
		case service.ExpiryExpired:
			res.Expired++
		case service.ExpiryCritical:
			res.Critical++
		case service.ExpiryWarning:
			res.Warning++
		}
	}
	return c.JSON(http.StatusOK, &res)
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be integer")
	}
	return v, nil
}
