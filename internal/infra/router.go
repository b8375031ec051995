package infra

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/handlers"
	"github.com/umalmyha/rentals/internal/metrics"
	"github.com/umalmyha/rentals/internal/validation"
	"github.com/unrolled/secure"
)

const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// RouterCfg carries transport level settings of router
type RouterCfg struct {
	HTTPS bool
}

// Handlers groups http handlers mounted by router
type Handlers struct {
	Customer   *handlers.CustomerHTTPHandler
	Compliance *handlers.ComplianceHTTPHandler
}

func Router(cfg RouterCfg, logger logrus.FieldLogger, v *validation.EchoValidator, actorMw echo.MiddlewareFunc, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler(logger)
	e.Validator = v

	secureMw := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		SSLRedirect:           cfg.HTTPS,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	// Middleware
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echo.WrapMiddleware(secureMw.Handler))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(_ echo.Context, rv echomw.RequestLoggerValues) error {
			logger.WithFields(logrus.Fields{
				"method":    rv.Method,
				"uri":       rv.URI,
				"status":    rv.Status,
				"latency":   rv.Latency.String(),
				"requestId": rv.RequestID,
				"remoteIp":  rv.RemoteIP,
			}).Info("request handled")
			return nil
		},
	}))
	e.Use(metrics.Echo())

	// Service routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	api := e.Group("/api/v1", actorMw)

	// customers
	customersApi := api.Group("/customers")
	customersApi.GET("", h.Customer.GetAll)
	customersApi.POST("", h.Customer.Post)
	customersApi.GET("/:id", h.Customer.Get)
	customersApi.PUT("/:id", h.Customer.Put)
	customersApi.DELETE("/:id", h.Customer.DeleteByID)
	customersApi.PUT("/:id/flags", h.Customer.PutFlags)
	customersApi.GET("/:id/risk-assessment", h.Customer.GetRiskAssessment)
	customersApi.GET("/:id/audit-logs", h.Customer.GetAuditLogs)

	// documents
	api.GET("/documents/expiring", h.Customer.GetExpiringDocuments)

	// retention
	retentionApi := api.Group("/retention")
	retentionApi.POST("/run", h.Compliance.PostRetentionRun)
	retentionApi.GET("/report", h.Compliance.GetRetentionReport)

	// audit
	auditApi := api.Group("/audit")
	auditApi.GET("/events", h.Compliance.GetAuditEvents)
	auditApi.GET("/report", h.Compliance.GetAuditReport)

	return e
}

// HTTPErrorHandler maps typed errors onto response status, unknown errors are hidden behind 500
func HTTPErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)

		entry := logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(status)
		} else {
			respErr = c.JSON(status, body)
		}
		if respErr != nil {
			logger.WithError(respErr).Error("failed to write error response")
		}
	}
}

func errorResponse(err error) (int, any) {
	var pldErr *validation.PayloadError
	if errors.As(err, &pldErr) {
		return http.StatusBadRequest, pldErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if _, ok := httpErr.Message.(string); !ok {
			return httpErr.Code, httpErr.Message
		}
		return httpErr.Code, echo.Map{"message": httpErr.Message}
	}

	kind := apperrors.KindOf(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError {
		return status, echo.Map{"kind": apperrors.KindInternal, "message": http.StatusText(status)}
	}

	var marshaler json.Marshaler
	if errors.As(err, &marshaler) {
		return status, marshaler
	}
	return status, echo.Map{"kind": kind, "message": err.Error()}
}

func statusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindPermission:
		return http.StatusForbidden
	case apperrors.KindDuplicate:
		return http.StatusConflict
	case apperrors.KindBusiness:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
