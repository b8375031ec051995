package risk

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/umalmyha/rentals/internal/model"
)

// Level is discrete risk classification
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

const (
	flagBonus             = 20.0
	damageFrequencyWeight = 50.0
	damageCostWeight      = 30.0
	damageCostThreshold   = 500.0
	fullCompletionRate    = 100.0
	maxScore              = 100.0
	highRiskThreshold     = 70.0
	mediumRiskThreshold   = 40.0
	factorConcernScore    = 60.0
)

// PaymentFactor is payment history part of assessment
type PaymentFactor struct {
	Score          float64
	CompletionRate float64
	Flagged        bool
	TotalOwed      decimal.Decimal
	TotalPaid      decimal.Decimal
}

// DamageFactor is damage history part of assessment
type DamageFactor struct {
	Score            float64
	TotalIncidents   int
	TotalCost        decimal.Decimal
	AveragePerRental float64
	Flagged          bool
}

// Assessment is derived risk picture of customer, scores are kept unrounded
type Assessment struct {
	CustomerID      string
	OverallScore    float64
	Level           Level
	Payment         PaymentFactor
	Damage          DamageFactor
	Recommendations []string
}

// Assess computes risk assessment from customer and its full contract history
func Assess(c *model.Customer, contracts []model.Contract) Assessment {
	payment := assessPayments(c, contracts)
	damage := assessDamages(c, contracts)

	overall := (payment.Score + damage.Score) / 2

	return Assessment{
		CustomerID:      c.ID,
		OverallScore:    overall,
		Level:           levelOf(overall),
		Payment:         payment,
		Damage:          damage,
		Recommendations: Recommendations(overall, payment.Score, damage.Score, c),
	}
}

func assessPayments(c *model.Customer, contracts []model.Contract) PaymentFactor {
	owed, paid := decimal.Zero, decimal.Zero
	for _, contract := range contracts {
		if contract.Status != model.ContractCompleted {
			continue
		}
		owed = owed.Add(contract.TotalAmount)
		paid = paid.Add(contract.CompletedPayments())
	}

	rate := fullCompletionRate
	if owed.GreaterThan(decimal.Zero) {
		rate = paid.InexactFloat64() / owed.InexactFloat64() * 100
	}

	score := fullCompletionRate - rate
	if c.PaymentRisk {
		score += flagBonus
	}

	return PaymentFactor{
		Score:          clamp(score),
		CompletionRate: rate,
		Flagged:        c.PaymentRisk,
		TotalOwed:      owed,
		TotalPaid:      paid,
	}
}

func assessDamages(c *model.Customer, contracts []model.Contract) DamageFactor {
	incidents := 0
	cost := decimal.Zero
	for _, contract := range contracts {
		incidents += len(contract.Damages)
		for _, d := range contract.Damages {
			cost = cost.Add(d.Cost())
		}
	}

	total := len(contracts)

	var average float64
	if total > 0 {
		average = cost.InexactFloat64() / float64(total)
	}

	var score float64
	if incidents > 0 && total > 0 {
		score += float64(incidents) / float64(total) * damageFrequencyWeight
	}

	if average > damageCostThreshold {
		score += damageCostWeight
	} else {
		score += average / damageCostThreshold * damageCostWeight
	}

	if c.DamageRisk {
		score += flagBonus
	}

	return DamageFactor{
		Score:            clamp(score),
		TotalIncidents:   incidents,
		TotalCost:        cost,
		AveragePerRental: average,
		Flagged:          c.DamageRisk,
	}
}

func levelOf(overall float64) Level {
	switch {
	case overall >= highRiskThreshold:
		return LevelHigh
	case overall >= mediumRiskThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

func clamp(score float64) float64 {
	return math.Min(maxScore, math.Max(0, score))
}

// Round rounds score half away from zero for presentation
func Round(score float64) int {
	return int(math.Round(score))
}
