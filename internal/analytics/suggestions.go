package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/quantfold/fxlab/internal/core"
)

// Suggestions is the result shape of the rule-based optimization query.
type Suggestions struct {
	Suggestions []string `json:"suggestions"`
	Warnings    []string `json:"warnings"`
}

const (
	minWinRate         = 40
	minRiskReward      = 1.5
	durationCorrCutoff = 0.3
)

// OptimizationSuggestions derives textual strategy hints from the loaded
// trade set. The second return is false when no trades are loaded.
func (e *Engine) OptimizationSuggestions() (*Suggestions, bool) {
	s := e.snapshotOrNil()
	if s == nil {
		return nil, false
	}

	out := &Suggestions{
		Suggestions: []string{},
		Warnings:    []string{},
	}

	var wins int
	for _, pnl := range s.pnls {
		if pnl > 0 {
			wins++
		}
	}
	winRate := float64(wins) / float64(len(s.pnls)) * 100
	if winRate < minWinRate {
		out.Warnings = append(out.Warnings,
			"Low win rate suggests entry criteria may need refinement")
	}

	if rr := s.validRiskRewards(); len(rr) > 0 {
		if avg, err := stats.Mean(rr); err == nil && avg < minRiskReward {
			out.Warnings = append(out.Warnings,
				"Risk-reward ratio is below recommended 1.5:1")
		}
	}

	best, worst := splitHoursByMean(s)
	if len(best) > 0 {
		out.Suggestions = append(out.Suggestions,
			"Consider focusing on trading during hours: "+joinHours(best))
	}
	if len(worst) > 0 {
		out.Suggestions = append(out.Suggestions,
			"Consider avoiding trading during hours: "+joinHours(worst))
	}

	durationCorr := pearsonOrZero(s.durations, s.pnls)
	if math.Abs(durationCorr) > durationCorrCutoff {
		if durationCorr > 0 {
			out.Suggestions = append(out.Suggestions,
				"Consider holding profitable trades longer as there's a positive correlation with duration")
		} else {
			out.Suggestions = append(out.Suggestions,
				"Consider tightening stops as longer trades tend to be less profitable")
		}
	}

	if side, ok := dominantDirection(s); ok {
		out.Suggestions = append(out.Suggestions,
			fmt.Sprintf("Strategy shows better performance on %s positions", side))
	}

	return out, true
}

// splitHoursByMean buckets entry hours into those whose mean P&L beats
// the across-hours mean and those that trail it.
func splitHoursByMean(s *snapshot) (best, worst []int) {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, t := range s.trades {
		h := t.EntryTime.Hour()
		sums[h] += s.pnls[i]
		counts[h]++
	}

	means := make(map[int]float64, len(sums))
	var total float64
	for h, sum := range sums {
		means[h] = sum / float64(counts[h])
		total += means[h]
	}
	overall := total / float64(len(means))

	for h, m := range means {
		switch {
		case m > overall:
			best = append(best, h)
		case m < overall:
			worst = append(worst, h)
		}
	}
	sort.Ints(best)
	sort.Ints(worst)
	return best, worst
}

func joinHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ", ")
}

// dominantDirection reports the better side when both directions are
// traded and the stronger one's mean P&L exceeds twice the weaker one's.
func dominantDirection(s *snapshot) (core.Direction, bool) {
	sums := make(map[core.Direction]float64)
	counts := make(map[core.Direction]int)
	for i, t := range s.trades {
		sums[t.Direction] += s.pnls[i]
		counts[t.Direction]++
	}
	if len(sums) < 2 {
		return "", false
	}

	var bestSide core.Direction
	maxMean := math.Inf(-1)
	minMean := math.Inf(1)
	for dir, sum := range sums {
		m := sum / float64(counts[dir])
		if m > maxMean {
			maxMean = m
			bestSide = dir
		}
		if m < minMean {
			minMean = m
		}
	}
	if maxMean > 2*minMean {
		return bestSide, true
	}
	return "", false
}
