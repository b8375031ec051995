package risk

import (
	"fmt"

	"github.com/umalmyha/rentals/internal/model"
)

const (
	recBlacklisted     = "⚠️ Customer is blacklisted - rental not recommended"
	recHighDeposit     = "High risk customer - require additional deposit"
	recManagerApproval = "Manager approval required for rental"
	recStandardDeposit = "Medium risk - standard deposit required"
	recDocumentVehicle = "Document vehicle condition thoroughly"
	recPrepayment      = "Payment history concerns - consider prepayment"
	recDetailedInspect = "Damage history concerns - detailed inspection required"
	recExtraInsurance  = "Consider additional insurance requirements"
	recSpecialNeedsFmt = "Special requirements: %s"
	recVIP             = "✨ VIP customer - provide premium service"
	recLowRiskFallback = "✅ Low risk customer - standard procedures apply"
)

// Recommendations builds ordered guidance from raw scores and customer markers
func Recommendations(overall, payment, damage float64, c *model.Customer) []string {
	recs := make([]string, 0)

	if c.Blacklisted {
		recs = append(recs, recBlacklisted)
	}

	switch {
	case overall >= highRiskThreshold:
		recs = append(recs, recHighDeposit, recManagerApproval)
	case overall >= mediumRiskThreshold:
		recs = append(recs, recStandardDeposit, recDocumentVehicle)
	}

	if payment >= factorConcernScore {
		recs = append(recs, recPrepayment)
	}

	if damage >= factorConcernScore {
		recs = append(recs, recDetailedInspect, recExtraInsurance)
	}

	if c.SpecialNeeds != nil && *c.SpecialNeeds != "" {
		recs = append(recs, fmt.Sprintf(recSpecialNeedsFmt, *c.SpecialNeeds))
	}

	if c.VIPStatus {
		recs = append(recs, recVIP)
	}

	if len(recs) == 0 {
		recs = append(recs, recLowRiskFallback)
	}
	return recs
}
