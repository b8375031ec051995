package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/handlers"
	handlerMocks "github.com/umalmyha/rentals/internal/handlers/mocks"
	"github.com/umalmyha/rentals/internal/middleware"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/service"
	svcMocks "github.com/umalmyha/rentals/internal/service/mocks"
	"github.com/umalmyha/rentals/internal/validation"
)

const testCustomerID = "2f0c5c3e-1f7e-4a26-8d0e-7f0f3f1c9a11"

type routerTestSuite struct {
	suite.Suite
	app         *echo.Echo
	customerSvc *svcMocks.CustomerService
	flagSvc     *svcMocks.FlagService
}

func (s *routerTestSuite) SetupTest() {
	t := s.T()
	logger, _ := test.NewNullLogger()

	v, trans, err := validation.New()
	s.Require().NoError(err, "failed to build validator")

	s.customerSvc = svcMocks.NewCustomerService(t)
	s.flagSvc = svcMocks.NewFlagService(t)

	staffActor := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.WithActor(c, model.Actor{ID: "user-1", Role: model.RoleStaff})
			return next(c)
		}
	}

	s.app = Router(RouterCfg{}, logger, validation.Echo(v, trans), staffActor, Handlers{
		Customer:   handlers.NewCustomerHTTPHandler(s.customerSvc, s.flagSvc, svcMocks.NewRiskService(t)),
		Compliance: handlers.NewComplianceHTTPHandler(svcMocks.NewRetentionService(t), handlerMocks.NewAuditReader(t)),
	})
}

func (s *routerTestSuite) serve(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	return rec
}

func (s *routerTestSuite) TestServiceRoutesAndHeaders() {
	s.T().Log("metrics endpoint is exposed with security headers and request id")
	{
		rec := s.serve(http.MethodGet, "/metrics", "")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().Contains(rec.Body.String(), "rentals_audit_events_accepted_total")
		s.Require().Equal("DENY", rec.Header().Get("X-Frame-Options"))
		s.Require().Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
		s.Require().NotEmpty(rec.Header().Get(echo.HeaderXRequestID))
	}

	s.T().Log("unknown route is 404")
	{
		rec := s.serve(http.MethodGet, "/api/v1/unknown", "")
		s.Require().Equal(http.StatusNotFound, rec.Code)
	}
}

func (s *routerTestSuite) TestTypedErrorsAreMapped() {
	s.T().Log("not found customer is 404 with error kind")
	{
		s.customerSvc.On("FindByID", mock.Anything, testCustomerID, mock.Anything).
			Return(nil, apperrors.NewEntryNotFoundErr("customer not found")).Once()

		rec := s.serve(http.MethodGet, "/api/v1/customers/"+testCustomerID, "")
		s.Require().Equal(http.StatusNotFound, rec.Code)
		s.Require().JSONEq(`{"kind":"not_found","message":"customer not found"}`, rec.Body.String())
	}

	s.T().Log("malformed id is 400 with violations")
	{
		rec := s.serve(http.MethodGet, "/api/v1/customers/abc", "")
		s.Require().Equal(http.StatusBadRequest, rec.Code)
		s.Require().JSONEq(`{"errors":[{"field":"id","message":"id must be a valid UUID"}]}`, rec.Body.String())
	}

	s.T().Log("blacklist attempt by staff is 403")
	{
		s.flagSvc.On("UpdateFlags", mock.Anything, testCustomerID, mock.Anything, mock.Anything).
			Return(service.FlagsResult{}, apperrors.NewPermissionErr("blacklist", "Insufficient permissions to modify blacklist status")).Once()

		rec := s.serve(http.MethodPut, "/api/v1/customers/"+testCustomerID+"/flags", `{"flags":["VIP"],"blacklisted":true,"reason":"fraud"}`)
		s.Require().Equal(http.StatusForbidden, rec.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Equal("permission", body["kind"])
		s.Require().Equal("blacklist", body["target"])
	}
}

func (s *routerTestSuite) TestCustomerProfileRoutes() {
	s.T().Log("search is routed with query params")
	{
		s.customerSvc.On("FindAll", mock.Anything, service.CustomerQuery{
			OrganizationID: "7d1c2d7e-4a4b-4f0e-9f43-0a4c1c6f3e11",
			Query:          "anna",
		}).Return(service.CustomerPage{Customers: []*model.Customer{}, Page: 1, Limit: 20}, nil).Once()

		rec := s.serve(http.MethodGet, "/api/v1/customers?organizationId=7d1c2d7e-4a4b-4f0e-9f43-0a4c1c6f3e11&q=anna", "")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().JSONEq(`{"data":[],"pagination":{"page":1,"limit":20,"total":0,"totalPages":0}}`, rec.Body.String())
	}

	s.T().Log("email taken by other customer is 409")
	{
		s.customerSvc.On("Update", mock.Anything, testCustomerID, mock.Anything, mock.Anything).
			Return(nil, apperrors.NewDuplicateErr("email", "an***@example.ch")).Once()

		rec := s.serve(http.MethodPut, "/api/v1/customers/"+testCustomerID, `{"email":"anna@example.ch"}`)
		s.Require().Equal(http.StatusConflict, rec.Code)
	}
}

func (s *routerTestSuite) TestAuditRoutesRequireElevatedRole() {
	for _, target := range []string{"/api/v1/audit/events", "/api/v1/audit/report"} {
		rec := s.serve(http.MethodGet, target, "")
		s.Require().Equal(http.StatusForbidden, rec.Code, target)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Equal("audit", body["target"])
	}
}

func (s *routerTestSuite) TestErrorResponse() {
	s.T().Log("error kinds are mapped onto statuses")
	{
		cases := []struct {
			err    error
			status int
		}{
			{err: apperrors.NewValidationErr("reason", "is required"), status: http.StatusBadRequest},
			{err: apperrors.NewEntryNotFoundErr("missing"), status: http.StatusNotFound},
			{err: apperrors.NewPermissionErr("blacklist", "denied"), status: http.StatusForbidden},
			{err: apperrors.NewDuplicateErr("email", "a***@b.ch"), status: http.StatusConflict},
			{err: apperrors.NewBusinessErr("customer", "Cannot delete customer with active contracts"), status: http.StatusUnprocessableEntity},
			{err: fmt.Errorf("wrapped - %w", apperrors.NewBusinessErr("customer", "rule")), status: http.StatusUnprocessableEntity},
			{err: echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), status: http.StatusUnauthorized},
			{err: errors.New("connection refused"), status: http.StatusInternalServerError},
		}

		for _, tc := range cases {
			status, _ := errorResponse(tc.err)
			s.Require().Equal(tc.status, status, tc.err.Error())
		}
	}

	s.T().Log("wrapped typed error keeps its payload")
	{
		_, body := errorResponse(fmt.Errorf("wrapped - %w", apperrors.NewBusinessErr("customer", "rule")))
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		s.Require().JSONEq(`{"kind":"business","target":"customer","message":"rule"}`, string(raw))
	}

	s.T().Log("internal error details are hidden")
	{
		_, body := errorResponse(errors.New("connection refused"))
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		s.Require().JSONEq(`{"kind":"internal","message":"Internal Server Error"}`, string(raw))
	}
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(routerTestSuite))
}
