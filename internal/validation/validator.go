package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/swiss"
)

const (
	TagSwissPhone    = "swiss_phone"
	TagSwissPostal   = "swiss_postal"
	TagCanton        = "canton"
	TagFlag          = "flag"
	TagSwissDocument = "swiss_document"
)

type customTag struct {
	tag         string
	fn          validator.Func
	translation string
}

var customTags = []customTag{
	{
		tag: TagSwissPhone,
		fn: func(fl validator.FieldLevel) bool {
			return swiss.ValidatePhone(fl.Field().String())
		},
		translation: "{0} must be a valid Swiss phone number",
	},
	{
		tag: TagSwissPostal,
		fn: func(fl validator.FieldLevel) bool {
			return swiss.ValidatePostalCode(fl.Field().String())
		},
		translation: "{0} must be a 4 digit Swiss postal code",
	},
	{
		tag: TagCanton,
		fn: func(fl validator.FieldLevel) bool {
			return swiss.ValidateCanton(fl.Field().String())
		},
		translation: "{0} must be a Swiss canton code",
	},
	{
		tag: TagFlag,
		fn: func(fl validator.FieldLevel) bool {
			return model.Flag(fl.Field().String()).Valid()
		},
		translation: "{0} contains unknown flag",
	},
	{
		tag: TagSwissDocument,
		fn: func(fl validator.FieldLevel) bool {
			return swiss.KnownDocumentType(swiss.DocumentType(fl.Field().String()))
		},
		translation: "{0} must be a known identity document type",
	},
}

type violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PayloadError is list of request payload violations
type PayloadError struct {
	violations []violation
}

func (e *PayloadError) Error() string {
	buff := bytes.NewBufferString("")

	for _, err := range e.violations {
		buff.WriteString(err.Message)
		buff.WriteString("\n")
	}

	return buff.String()
}

func (e *PayloadError) Violation(v violation) {
	e.violations = append(e.violations, v)
}

func (e *PayloadError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Errors []violation `json:"errors"`
	}{
		Errors: e.violations,
	})
}

// New builds validator with Swiss tags registered and english translator for all tags
func New() (*validator.Validate, ut.Translator, error) {
	enLocale := en.New()
	trans, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	if !ok {
		return nil, nil, errors.New("en translator is missing")
	}

	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations - %w", err)
	}

	for _, ct := range customTags {
		if err := v.RegisterValidation(ct.tag, ct.fn); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s validation - %w", ct.tag, err)
		}

		if err := v.RegisterTranslation(ct.tag, trans, registrationFunc(ct.tag, ct.translation), translateFunc(ct.tag)); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation - %w", ct.tag, err)
		}
	}

	return v, trans, nil
}

func registrationFunc(tag, text string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, text, true)
	}
}

func translateFunc(tag string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		msg, err := trans.T(tag, fe.Field())
		if err != nil {
			return fe.Error()
		}
		return msg
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

type EchoValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

func Echo(validator *validator.Validate, translator ut.Translator) *EchoValidator {
	return &EchoValidator{
		validator:  validator,
		translator: translator,
	}
}

func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return v.payloadError(ve)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (v *EchoValidator) payloadError(ve validator.ValidationErrors) error {
	pldErr := &PayloadError{violations: make([]violation, 0)}
	for _, e := range ve {
		pldErr.Violation(violation{
			Field:   e.Field(),
			Message: e.Translate(v.translator),
		})
	}
	return pldErr
}
