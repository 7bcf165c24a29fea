// internal/core/domain/signals/score.go
package signals

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"mr-trader-bot/pkg/logger"
)

// MinConfidence минимальная уверенность пригодного сигнала (включительно)
const MinConfidence = 0.1

var errNonFinite = errors.New("non-finite score")

// Score сводная оценка сигнала для ранжирования. Ошибка расчета дает 0.
func Score(s Signal) float64 {
	score, err := computeScore(s)
	if err != nil {
		logger.Warn("⚠️ Не удалось рассчитать оценку сигнала %s (%s): %v", s.ID, s.Pair(), err)
		return 0.0
	}
	return score
}

func computeScore(s Signal) (float64, error) {
	base, ok := s.Type.Value()
	if !ok {
		return 0, fmt.Errorf("unknown signal type %q", s.Type)
	}
	multiplier, ok := s.Strength.Multiplier()
	if !ok {
		return 0, fmt.Errorf("unknown strength %q", s.Strength)
	}

	if len(s.Indicators) > 0 {
		var total float64
		for _, ind := range s.Indicators {
			value, ok := ind.Signal.Value()
			if !ok {
				return 0, fmt.Errorf("indicator %s: unknown signal type %q", ind.Name, ind.Signal)
			}
			total += value * ind.Confidence
		}
		indicatorScore := total / float64(len(s.Indicators))
		base = (base + indicatorScore) / 2
	}

	score := base * multiplier * s.Confidence
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, errNonFinite
	}
	return math.Round(score*1000) / 1000, nil
}

// IsValid проверяет пригодность сигнала на момент now
func IsValid(s Signal, now time.Time) bool {
	if s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return false
	}
	if s.Symbol == "" || s.CurrentPrice <= 0 {
		return false
	}
	return s.Confidence >= MinConfidence
}

// Rank отбирает пригодные сигналы и сортирует их по оценке по убыванию.
// Сигналы с равной оценкой сохраняют исходный порядок. limit <= 0 без ограничения.
func Rank(list []Signal, now time.Time, limit int) []Signal {
	type scored struct {
		signal Signal
		score  float64
	}

	candidates := make([]scored, 0, len(list))
	for _, s := range list {
		if IsValid(s, now) {
			candidates = append(candidates, scored{signal: s, score: Score(s)})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]Signal, len(candidates))
	for i, c := range candidates {
		result[i] = c.signal
	}
	return result
}
