package middleware

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/auth"
	"github.com/umalmyha/rentals/internal/auth/authtest"
	"github.com/umalmyha/rentals/internal/middleware/mocks"
	"github.com/umalmyha/rentals/internal/model"
)

const testRequestID = "0b6f4d36-3c0e-4a52-9a6e-3f7c2b1d9e44"

type actorMiddlewareTestSuite struct {
	suite.Suite
	app            *echo.Echo
	issuer         *authtest.Issuer
	validator      *auth.JwtValidator
	authLoggerMock *mocks.AuthLogger
}

func (s *actorMiddlewareTestSuite) SetupTest() {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)

	method := jwt.GetSigningMethod("EdDSA")
	s.issuer = authtest.NewIssuer("rentals-test", method, time.Minute, priv)
	s.validator = auth.NewJwtValidator(method, pub)
	s.authLoggerMock = mocks.NewAuthLogger(s.T())
	s.app = echo.New()
}

func (s *actorMiddlewareTestSuite) run(required bool, prepare func(*http.Request)) (model.Actor, error) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/1", http.NoBody)
	req.Header.Set(echo.HeaderXRealIP, "10.1.2.3")
	req.Header.Set("User-Agent", "backoffice/1.0")
	prepare(req)

	rec := httptest.NewRecorder()
	c := s.app.NewContext(req, rec)

	var actor model.Actor
	h := Actor(s.validator, s.authLoggerMock, required)(func(c echo.Context) error {
		actor = ActorFrom(c)
		return nil
	})
	return actor, h(c)
}

func (s *actorMiddlewareTestSuite) TestBearerToken() {
	token, err := s.issuer.Sign("user-7", "admin@example.ch", model.RoleAdmin, time.Now())
	s.Require().NoError(err)

	actor, err := s.run(true, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		r.Header.Set(echo.HeaderXRequestID, testRequestID)
	})
	s.Require().NoError(err)
	s.Require().Equal(model.Actor{
		ID:        "user-7",
		Email:     "admin@example.ch",
		Role:      model.RoleAdmin,
		IPAddress: "10.1.2.3",
		UserAgent: "backoffice/1.0",
		RequestID: testRequestID,
	}, actor)
}

func (s *actorMiddlewareTestSuite) TestDefaultActor() {
	s.T().Log("missing token falls back to default actor")
	{
		actor, err := s.run(false, func(r *http.Request) {
			r.Header.Set(echo.HeaderXRequestID, "not-a-uuid")
		})
		s.Require().NoError(err)
		s.Require().True(actor.IsDefault())
		s.Require().Equal(model.RoleStaff, actor.Role)
		s.Require().Empty(actor.RequestID, "only uuid request ids are propagated")
	}

	s.T().Log("missing token is rejected when authorization is required")
	{
		_, err := s.run(true, func(*http.Request) {})

		var httpErr *echo.HTTPError
		s.Require().ErrorAs(err, &httpErr)
		s.Require().Equal(http.StatusUnauthorized, httpErr.Code)
	}
}

func (s *actorMiddlewareTestSuite) TestInvalidToken() {
	s.authLoggerMock.On("LogAuth", mock.Anything, audit.EventLoginFailed, "", false, "10.1.2.3", mock.Anything).Twice()

	for _, hdr := range []string{"Bearer garbage", "Basic dXNlcjpwYXNz"} {
		_, err := s.run(false, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, hdr)
		})

		var httpErr *echo.HTTPError
		s.Require().ErrorAs(err, &httpErr)
		s.Require().Equal(http.StatusUnauthorized, httpErr.Code)
	}
}

func (s *actorMiddlewareTestSuite) TestActorFromWithoutMiddleware() {
	c := s.app.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), httptest.NewRecorder())
	s.Require().True(ActorFrom(c).IsDefault())

	WithActor(c, model.Actor{ID: "user-1", Role: model.RoleManager})
	s.Require().Equal("user-1", ActorFrom(c).ID)
}

func TestActorMiddleware(t *testing.T) {
	suite.Run(t, new(actorMiddlewareTestSuite))
}
