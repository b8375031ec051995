package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/model"
)

const customerResource = "customer"

// EventLogger accepts compliance events, implemented by audit.Logger
type EventLogger interface {
	Log(context.Context, audit.Event)
}

func newCustomerAuditLog(customerID string, actor model.Actor, action model.CustomerAuditAction, reason string, at time.Time) *model.CustomerAuditLog {
	return &model.CustomerAuditLog{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		UserID:     actor.ID,
		Action:     action,
		Reason:     reason,
		IPAddress:  optional(actor.IPAddress),
		UserAgent:  optional(actor.UserAgent),
		CreatedAt:  at,
	}
}

func jsonValue(v any) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
