package service

import (
	"context"
	"fmt"

	"github.com/umalmyha/rentals/internal/audit"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/repository"
	"github.com/umalmyha/rentals/internal/risk"
)

// RiskService computes risk assessment of customer from its contract history
type RiskService interface {
	Assess(ctx context.Context, customerID string, actor model.Actor) (risk.Assessment, error)
}

type riskService struct {
	customerRepo repository.CustomerRepository
	contractRepo repository.ContractRepository
	events       EventLogger
}

// NewRiskService builds RiskService
func NewRiskService(customerRepo repository.CustomerRepository, contractRepo repository.ContractRepository, events EventLogger) RiskService {
	return &riskService{
		customerRepo: customerRepo,
		contractRepo: contractRepo,
		events:       events,
	}
}

func (s *riskService) Assess(ctx context.Context, customerID string, actor model.Actor) (risk.Assessment, error) {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return risk.Assessment{}, fmt.Errorf("failed to read customer %s - %w", customerID, err)
	}

	if c == nil {
		return risk.Assessment{}, apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer %s not found", customerID))
	}

	contracts, err := s.contractRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return risk.Assessment{}, fmt.Errorf("failed to read contracts of customer %s - %w", customerID, err)
	}

	a := risk.Assess(c, contracts)

	e := audit.PersonalData(audit.EventDataAccess, actor, "Risk assessment computed", model.CategoryFinancial, model.BasisLegitimateInterests)
	e.ResourceType = customerResource
	e.ResourceID = customerID
	e.OrganizationID = c.OrganizationID
	e.Metadata = map[string]any{
		"riskLevel":    a.Level,
		"overallScore": risk.Round(a.OverallScore),
	}
	s.events.Log(ctx, e)

	return a, nil
}
