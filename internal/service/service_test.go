package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/swiss"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type stubTransactor struct {
	calls int
}

func (t *stubTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) error {
	t.calls++
	return txFunc(ctx)
}

func fixedNow() time.Time {
	return testNow
}

func testCustomer() *model.Customer {
	created := testNow.AddDate(-1, 0, 0)
	return &model.Customer{
		ID:                 "2f0c5c3e-1f7e-4a26-8d0e-7f0f3f1c9a11",
		OrganizationID:     "7d1c2d7e-4a4b-4f0e-9f43-0a4c1c6f3e11",
		FirstName:          "Anna",
		LastName:           "Muster",
		Email:              "anna.muster@example.ch",
		Phone:              "+41 79 123 45 67",
		DocumentType:       swiss.DocumentIDCard,
		DocumentNumber:     "12345678",
		Street:             "Bahnhofstrasse 1",
		City:               "Zürich",
		Canton:             "ZH",
		PostalCode:         "8001",
		Country:            "CH",
		Status:             model.StatusActive,
		Flags:              []model.Flag{},
		LifetimeValue:      decimal.NewFromInt(3000),
		OutstandingBalance: decimal.Zero,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
}

func actorWithRole(role model.Role) model.Actor {
	return model.Actor{
		ID:        "user-1",
		Email:     "user@example.ch",
		Role:      role,
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
