// Package scoring holds the quality-management scoring rules: risk scores
// and levels, and supplier performance scores. The formulas are part of the
// platform's contract with its users, so they live in one place instead of
// being repeated in handlers and agents.
package scoring

// Risk levels derived from a risk score.
const (
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskCritical = "Critical"
)

// RiskScore computes the score for a likelihood/impact pair. Both are
// expected in 1..5; the score is their product (1..25).
func RiskScore(likelihood, impact int) float64 {
	return float64(likelihood * impact)
}

// RiskLevel maps a risk score to its level band.
func RiskLevel(score float64) string {
	switch {
	case score <= 5:
		return RiskLow
	case score <= 12:
		return RiskMedium
	case score <= 20:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// SupplierFactors are optional adjustments on top of the base supplier
// performance score.
type SupplierFactors struct {
	RecentAuditPassed bool
	Certified         bool
	Complaints        int
}

// SupplierPerformance computes a 0..100 supplier score: 60% weight on
// on-time delivery, 40% on quality (the inverse of the defect rate), with
// small adjustments for audits, certification, and complaints. The result
// is clamped to 0..100.
func SupplierPerformance(onTimeDelivery, defectRate float64, factors *SupplierFactors) float64 {
	score := onTimeDelivery*0.6 + (100-defectRate)*0.4

	if factors != nil {
		if factors.RecentAuditPassed {
			score += 5
		}
		if factors.Certified {
			score += 3
		}
		score -= float64(factors.Complaints) * 2
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
