// internal/core/domain/signals/risk.go
package signals

import (
	"fmt"
	"math"
)

// CalculateRiskLevel классифицирует риск по силе, уверенности и таймфрейму.
// Неизвестная сила или таймфрейм дают RiskMedium.
func CalculateRiskLevel(strength Strength, confidence float64, timeframe Timeframe) RiskLevel {
	score, err := riskScore(strength, confidence, timeframe)
	if err != nil {
		return RiskMedium
	}
	return riskFromScore(score)
}

func riskScore(strength Strength, confidence float64, timeframe Timeframe) (int, error) {
	strengthPoints, ok := strengthRisk[strength]
	if !ok {
		return 0, fmt.Errorf("unknown strength %q", strength)
	}
	timeframePoints, ok := timeframeRisk[timeframe]
	if !ok {
		return 0, fmt.Errorf("unknown timeframe %q", timeframe)
	}
	if math.IsNaN(confidence) {
		return 0, fmt.Errorf("confidence is NaN")
	}

	score := strengthPoints + timeframePoints
	switch {
	case confidence < 0.3:
		score += 2
	case confidence < 0.6:
		score++
	}
	return score, nil
}

func riskFromScore(score int) RiskLevel {
	switch {
	case score <= 3:
		return RiskLow
	case score <= 5:
		return RiskMedium
	case score <= 7:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}
