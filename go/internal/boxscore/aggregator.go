package boxscore

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
)

// EventSource defines what the aggregator needs from the event ledger.
type EventSource interface {
	ListByGame(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.GameEvent, error)
}

// ProjectionRepository defines what the aggregator needs to persist derived
// aggregates.
type ProjectionRepository interface {
	ReplaceTeams(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, teams []models.BoxScoreTeam) error
	ReplacePlayers(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, players []models.BoxScorePlayer) error
}

// Aggregator replays the ordered event ledger into team and player box-score
// aggregates. It is the only writer of the projection tables.
type Aggregator struct {
	events EventSource
	repo   ProjectionRepository
}

// NewAggregator creates a new box-score aggregator.
func NewAggregator(events EventSource, repo ProjectionRepository) *Aggregator {
	return &Aggregator{
		events: events,
		repo:   repo,
	}
}

// Recompute folds the whole ledger and replaces the stored aggregates.
// Deterministic in the ledger's insertion order and safe to call repeatedly;
// recomputation is never delta-based, so retried or reordered calls converge
// on the same rows.
func (a *Aggregator) Recompute(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) error {
	events, err := a.events.ListByGame(ctx, db, gameID)
	if err != nil {
		return err
	}

	teams, players := Fold(gameID, events)
	if err := a.repo.ReplaceTeams(ctx, db, gameID, teams); err != nil {
		return err
	}
	return a.repo.ReplacePlayers(ctx, db, gameID, players)
}

// Fold reduces an ordered event list into team and player aggregates. Pure:
// the same ledger always yields identical output, with players sorted by id.
func Fold(gameID uuid.UUID, events []models.GameEvent) ([]models.BoxScoreTeam, []models.BoxScorePlayer) {
	teamLines := map[models.TeamSide]*models.StatLine{
		models.TeamSideHome: {},
		models.TeamSideAway: {},
	}
	playerLines := make(map[uuid.UUID]*models.BoxScorePlayer)

	for _, e := range events {
		effect, ok := statEffects[e.Type]
		if !ok {
			continue // substitution markers and the like carry no stat effect
		}
		line, ok := teamLines[e.TeamSide]
		if !ok {
			continue // rows with an unknown side are skipped, like unknown kinds
		}
		effect(line)
		if e.PlayerID != nil {
			p, ok := playerLines[*e.PlayerID]
			if !ok {
				p = &models.BoxScorePlayer{GameID: gameID, PlayerID: *e.PlayerID, TeamSide: e.TeamSide}
				playerLines[*e.PlayerID] = p
			}
			effect(&p.StatLine)
		}
	}

	teams := []models.BoxScoreTeam{
		{GameID: gameID, TeamSide: models.TeamSideHome, StatLine: *teamLines[models.TeamSideHome]},
		{GameID: gameID, TeamSide: models.TeamSideAway, StatLine: *teamLines[models.TeamSideAway]},
	}

	players := make([]models.BoxScorePlayer, 0, len(playerLines))
	for _, p := range playerLines {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].PlayerID.String() < players[j].PlayerID.String()
	})
	return teams, players
}

// statEffects maps each scoring/defensive kind to its counter effect.
// Substitution markers (SUB_IN, SUB_OUT) deliberately have none.
var statEffects = map[models.EventKind]func(*models.StatLine){
	models.EventShotMade2: func(l *models.StatLine) {
		l.FG2M++
		l.FG2A++
		l.Points += 2
	},
	models.EventShotMissed2: func(l *models.StatLine) {
		l.FG2A++
	},
	models.EventShotMade3: func(l *models.StatLine) {
		l.FG3M++
		l.FG3A++
		l.Points += 3
	},
	models.EventShotMissed3: func(l *models.StatLine) {
		l.FG3A++
	},
	models.EventFTMade: func(l *models.StatLine) {
		l.FTM++
		l.FTA++
		l.Points++
	},
	models.EventFTMissed: func(l *models.StatLine) {
		l.FTA++
	},
	models.EventReboundOff: func(l *models.StatLine) {
		l.OffReb++
	},
	models.EventReboundDef: func(l *models.StatLine) {
		l.DefReb++
	},
	models.EventAssist: func(l *models.StatLine) {
		l.Assists++
	},
	models.EventSteal: func(l *models.StatLine) {
		l.Steals++
	},
	models.EventBlock: func(l *models.StatLine) {
		l.Blocks++
	},
	models.EventTurnover: func(l *models.StatLine) {
		l.Turnovers++
	},
	models.EventFoul: func(l *models.StatLine) {
		l.Fouls++
	},
}
