package boxscore

import "github.com/mcdev12/courtside/go/internal/models"

// AdvancedMetrics are pure functions of the raw aggregates. They are never
// persisted; always computed on read.
type AdvancedMetrics struct {
	EffectiveFGPct  float64 `json:"effective_fg_pct"`
	TrueShootingPct float64 `json:"true_shooting_pct"`
	TurnoverPct     float64 `json:"turnover_pct"`
	OffReboundPct   float64 `json:"off_rebound_pct"`
	FTRate          float64 `json:"ft_rate"`
}

// Advanced derives the shooting efficiency and four-factor metrics for one
// line against its opponent. Opponent defensive rebounds feed the offensive
// rebounding factor.
func Advanced(line, opponent models.StatLine) AdvancedMetrics {
	fga := line.FG2A + line.FG3A
	fgm := line.FG2M + line.FG3M

	m := AdvancedMetrics{}
	if fga > 0 {
		m.EffectiveFGPct = (float64(fgm) + 0.5*float64(line.FG3M)) / float64(fga)
		m.FTRate = float64(line.FTM) / float64(fga)
	}

	scoringPoss := float64(fga) + 0.44*float64(line.FTA)
	if scoringPoss > 0 {
		m.TrueShootingPct = float64(line.Points) / (2 * scoringPoss)
	}
	if poss := scoringPoss + float64(line.Turnovers); poss > 0 {
		m.TurnoverPct = float64(line.Turnovers) / poss
	}
	if chances := line.OffReb + opponent.DefReb; chances > 0 {
		m.OffReboundPct = float64(line.OffReb) / float64(chances)
	}
	return m
}
