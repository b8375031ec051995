package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/cache"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/repository"
	"github.com/umalmyha/rentals/pkg/db/transactor"
)

const (
	maxReasonLength       = 500
	maxSpecialNeedsLength = 1000
)

// FlagsUpdate is requested change of customer flags, blacklist, VIP and risk markers.
// Nil fields are left untouched, Flags is the complete new flag set.
type FlagsUpdate struct {
	Flags           []model.Flag
	Blacklisted     *bool
	BlacklistReason *string
	BlacklistExpiry *time.Time
	VIPStatus       *bool
	PaymentRisk     *bool
	DamageRisk      *bool
	SpecialNeeds    *string
	Reason          string
}

// FlagChange is single semantic change applied by flags update
type FlagChange struct {
	Action model.CustomerAuditAction `json:"action"`
	Detail string                    `json:"detail"`
	field  string
	old    any
	new    any
}

// FlagsResult is updated customer together with the changes which occurred
type FlagsResult struct {
	Customer *model.Customer
	Changes  []FlagChange
}

// FlagService manages customer flags, blacklist and VIP status
type FlagService interface {
	UpdateFlags(ctx context.Context, customerID string, u FlagsUpdate, actor model.Actor) (FlagsResult, error)
}

type flagService struct {
	trx          transactor.Transactor
	customerRepo repository.CustomerRepository
	auditRepo    repository.CustomerAuditLogRepository
	cache        cache.CustomerCache
	events       EventLogger
	logger       logrus.FieldLogger
	now          func() time.Time
}

// NewFlagService builds FlagService
func NewFlagService(
	trx transactor.Transactor,
	customerRepo repository.CustomerRepository,
	auditRepo repository.CustomerAuditLogRepository,
	cache cache.CustomerCache,
	events EventLogger,
	logger logrus.FieldLogger,
) FlagService {
	return &flagService{
		trx:          trx,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		cache:        cache,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// UpdateFlags validates and applies update within single transaction holding the customer row lock.
// Customer row and one audit entry per change are committed together, nothing is written on error.
func (s *flagService) UpdateFlags(ctx context.Context, customerID string, u FlagsUpdate, actor model.Actor) (FlagsResult, error) {
	if err := validateFlagsUpdate(u); err != nil {
		return FlagsResult{}, err
	}

	var res FlagsResult
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.customerRepo.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return fmt.Errorf("failed to read customer %s - %w", customerID, err)
		}

		if c == nil {
			return apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer %s not found", customerID))
		}

		if c.IsAnonymized() {
			return apperrors.NewBusinessErr("customer", "flags of anonymized customer can't be changed")
		}

		if u.Blacklisted != nil && *u.Blacklisted != c.Blacklisted && !actor.Role.IsElevated() {
			s.logger.WithFields(logrus.Fields{
				"customerId": customerID,
				"userId":     actor.ID,
				"role":       actor.Role,
			}).Warn("blacklist modification rejected")
			return apperrors.NewPermissionErr("blacklist", "Manager approval required for blacklist modifications")
		}

		now := s.now().UTC()
		changes := applyFlagsUpdate(c, u, now)

		if err := s.customerRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update customer %s - %w", customerID, err)
		}

		logs, err := flagAuditLogs(c.ID, u.Reason, changes, actor, now)
		if err != nil {
			return fmt.Errorf("failed to build audit entries - %w", err)
		}

		if len(logs) > 0 {
			if err := s.auditRepo.CreateMany(ctx, logs); err != nil {
				return fmt.Errorf("failed to write audit entries - %w", err)
			}
		}

		res = FlagsResult{Customer: c, Changes: changes}
		return nil
	})
	if err != nil {
		return FlagsResult{}, err
	}

	if err := s.cache.EvictByID(ctx, customerID); err != nil {
		s.logger.Warnf("failed to evict customer %s from cache - %v", customerID, err)
	}

	for _, ch := range res.Changes {
		e := audit.ForActor(audit.EventAdminModify, actor, fmt.Sprintf("%s: %s", ch.Action, ch.Detail))
		e.ResourceType = customerResource
		e.ResourceID = customerID
		e.AffectedFields = []string{ch.field}
		e.Canton = res.Customer.Canton
		e.OrganizationID = res.Customer.OrganizationID
		s.events.Log(ctx, e)
	}

	return res, nil
}

func validateFlagsUpdate(u FlagsUpdate) error {
	reason := strings.TrimSpace(u.Reason)
	if reason == "" {
		return apperrors.NewValidationErr("reason", "reason is required")
	}

	if utf8.RuneCountInString(u.Reason) > maxReasonLength {
		return apperrors.NewValidationErr("reason", fmt.Sprintf("must be at most %d characters", maxReasonLength))
	}

	if u.Flags == nil {
		return apperrors.NewValidationErr("flags", "flags are required")
	}

	for _, f := range u.Flags {
		if !f.Valid() {
			return apperrors.NewValidationErr("flags", fmt.Sprintf("unknown flag %q", f))
		}
	}

	if u.BlacklistReason != nil && utf8.RuneCountInString(*u.BlacklistReason) > maxReasonLength {
		return apperrors.NewValidationErr("blacklistReason", fmt.Sprintf("must be at most %d characters", maxReasonLength))
	}

	if u.SpecialNeeds != nil && utf8.RuneCountInString(*u.SpecialNeeds) > maxSpecialNeedsLength {
		return apperrors.NewValidationErr("specialNeeds", fmt.Sprintf("must be at most %d characters", maxSpecialNeedsLength))
	}
	return nil
}

// applyFlagsUpdate mutates c and returns changes in order flags added, flags removed, blacklist, VIP
func applyFlagsUpdate(c *model.Customer, u FlagsUpdate, now time.Time) []FlagChange {
	changes := make([]FlagChange, 0)
	oldFlags := c.Flags
	newFlags := uniqueFlags(u.Flags)

	if added := flagsDiff(newFlags, oldFlags); len(added) > 0 {
		changes = append(changes, FlagChange{
			Action: model.AuditActionFlagAdded,
			Detail: fmt.Sprintf("Added flags: %s", joinFlags(added)),
			field:  "flags",
			old:    oldFlags,
			new:    newFlags,
		})
	}

	if removed := flagsDiff(oldFlags, newFlags); len(removed) > 0 {
		changes = append(changes, FlagChange{
			Action: model.AuditActionFlagRemoved,
			Detail: fmt.Sprintf("Removed flags: %s", joinFlags(removed)),
			field:  "flags",
			old:    oldFlags,
			new:    newFlags,
		})
	}
	c.Flags = newFlags

	if u.Blacklisted != nil {
		wasBlacklisted := c.Blacklisted
		c.Blacklisted = *u.Blacklisted

		if c.Blacklisted {
			reason := u.Reason
			if u.BlacklistReason != nil && *u.BlacklistReason != "" {
				reason = *u.BlacklistReason
			}
			c.BlacklistReason = &reason
			if u.BlacklistExpiry != nil {
				c.BlacklistExpiry = u.BlacklistExpiry
			}
			c.Status = model.StatusBlacklisted
		} else {
			c.BlacklistReason = nil
			c.BlacklistExpiry = nil
			if c.Status == model.StatusBlacklisted {
				c.Status = model.StatusActive
			}
		}

		if wasBlacklisted != c.Blacklisted {
			detail := "Removed from blacklist"
			action := model.AuditActionBlacklistRemove
			if c.Blacklisted {
				detail = fmt.Sprintf("Blacklisted: %s", *c.BlacklistReason)
				action = model.AuditActionBlacklistAdd
			}
			changes = append(changes, FlagChange{Action: action, Detail: detail, field: "blacklisted", old: wasBlacklisted, new: c.Blacklisted})
		}
	}

	if u.VIPStatus != nil {
		wasVIP := c.VIPStatus
		c.VIPStatus = *u.VIPStatus

		switch {
		case c.VIPStatus && !c.Blacklisted:
			c.Status = model.StatusVIP
		case !c.VIPStatus && c.Status == model.StatusVIP:
			c.Status = model.StatusActive
		}

		if wasVIP != c.VIPStatus {
			detail := "Removed VIP status"
			action := model.AuditActionVIPRemove
			if c.VIPStatus {
				detail = "Added VIP status"
				action = model.AuditActionVIPAdd
			}
			changes = append(changes, FlagChange{Action: action, Detail: detail, field: "vipStatus", old: wasVIP, new: c.VIPStatus})
		}
	}

	if u.PaymentRisk != nil {
		c.PaymentRisk = *u.PaymentRisk
	}
	if u.DamageRisk != nil {
		c.DamageRisk = *u.DamageRisk
	}
	if u.SpecialNeeds != nil {
		c.SpecialNeeds = u.SpecialNeeds
	}

	c.LastActivityDate = &now
	c.UpdatedAt = now
	return changes
}

func flagAuditLogs(customerID, reason string, changes []FlagChange, actor model.Actor, at time.Time) ([]*model.CustomerAuditLog, error) {
	logs := make([]*model.CustomerAuditLog, 0, len(changes))
	for _, ch := range changes {
		l := newCustomerAuditLog(customerID, actor, ch.Action, fmt.Sprintf("%s - %s", reason, ch.Detail), at)

		field := ch.field
		l.FieldChanged = &field

		oldValue, err := jsonValue(ch.old)
		if err != nil {
			return nil, err
		}
		l.OldValue = oldValue

		newValue, err := jsonValue(ch.new)
		if err != nil {
			return nil, err
		}
		l.NewValue = newValue

		logs = append(logs, l)
	}
	return logs, nil
}

func uniqueFlags(flags []model.Flag) []model.Flag {
	seen := make(map[model.Flag]struct{}, len(flags))
	unique := make([]model.Flag, 0, len(flags))
	for _, f := range flags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		unique = append(unique, f)
	}
	return unique
}

// flagsDiff returns flags of a missing in b, keeping order of a
func flagsDiff(a, b []model.Flag) []model.Flag {
	in := make(map[model.Flag]struct{}, len(b))
	for _, f := range b {
		in[f] = struct{}{}
	}

	diff := make([]model.Flag, 0)
	for _, f := range a {
		if _, ok := in[f]; !ok {
			diff = append(diff, f)
		}
	}
	return diff
}

func joinFlags(flags []model.Flag) string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
