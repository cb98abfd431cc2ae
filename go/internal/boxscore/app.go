package boxscore

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/courtside/go/internal/minutes"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// SessionSource defines what the read side needs from the clock ledger.
type SessionSource interface {
	Latest(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (*models.ClockSession, error)
}

// StatusSource defines what the read side needs from the roster side.
type StatusSource interface {
	ListStatuses(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.PlayerGameStatus, error)
}

// ProjectionSource defines what the read side needs from the stored
// aggregates.
type ProjectionSource interface {
	ListTeams(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.BoxScoreTeam, error)
	ListPlayers(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.BoxScorePlayer, error)
}

// Cache absorbs per-second viewer polls. Strictly best-effort: a read or
// write failure is logged and never surfaced.
type Cache interface {
	ReadBoxScore(ctx context.Context, gameID uuid.UUID) (*LiveBoxScore, error)
	WriteBoxScore(ctx context.Context, gameID uuid.UUID, score *LiveBoxScore) error
}

// TeamAggregate is a stored team line plus its on-read advanced metrics.
type TeamAggregate struct {
	models.BoxScoreTeam
	Advanced AdvancedMetrics `json:"advanced"`
}

// PlayerAggregate is a stored player line plus the live-minutes overlay.
type PlayerAggregate struct {
	models.BoxScorePlayer
	SecondsPlayed int  `json:"seconds_played"`
	OnCourt       bool `json:"on_court"`
}

// LiveBoxScore is the full read model served to viewers.
type LiveBoxScore struct {
	GameID  uuid.UUID            `json:"game_id"`
	Clock   *models.ClockSession `json:"clock,omitempty"`
	Teams   []TeamAggregate      `json:"teams"`
	Players []PlayerAggregate    `json:"players"`
}

// App assembles the live box score: stored aggregates, current clock state
// and per-player live minutes. Read-only; never opens a mutating transaction.
type App struct {
	sessions    SessionSource
	statuses    StatusSource
	projections ProjectionSource
	cache       Cache
	db          sqlutil.DBTX
	clock       clockwork.Clock
}

// NewApp creates a new box-score read App. cache may be nil.
func NewApp(sessions SessionSource, statuses StatusSource, projections ProjectionSource, cache Cache, db sqlutil.DBTX, clk clockwork.Clock) *App {
	return &App{
		sessions:    sessions,
		statuses:    statuses,
		projections: projections,
		cache:       cache,
		db:          db,
		clock:       clk,
	}
}

// GetLive returns the current box score with the live-minutes overlay.
// Cached copies are good for a couple of seconds; minutes keep ticking
// because the overlay ships the clock session viewers extrapolate from.
func (a *App) GetLive(ctx context.Context, gameID uuid.UUID) (*LiveBoxScore, error) {
	if a.cache != nil {
		cached, err := a.cache.ReadBoxScore(ctx, gameID)
		if err != nil {
			log.Warn().Err(err).Str("game_id", gameID.String()).Msg("box score cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	latest, err := a.sessions.Latest(ctx, a.db, gameID)
	if err != nil {
		return nil, err
	}
	teams, err := a.projections.ListTeams(ctx, a.db, gameID)
	if err != nil {
		return nil, err
	}
	players, err := a.projections.ListPlayers(ctx, a.db, gameID)
	if err != nil {
		return nil, err
	}
	statuses, err := a.statuses.ListStatuses(ctx, a.db, gameID)
	if err != nil {
		return nil, err
	}

	score := &LiveBoxScore{GameID: gameID, Clock: latest}

	lines := map[models.TeamSide]models.StatLine{}
	for _, t := range teams {
		lines[t.TeamSide] = t.StatLine
	}
	for _, side := range []models.TeamSide{models.TeamSideHome, models.TeamSideAway} {
		opponent := models.TeamSideAway
		if side == models.TeamSideAway {
			opponent = models.TeamSideHome
		}
		score.Teams = append(score.Teams, TeamAggregate{
			BoxScoreTeam: models.BoxScoreTeam{GameID: gameID, TeamSide: side, StatLine: lines[side]},
			Advanced:     Advanced(lines[side], lines[opponent]),
		})
	}

	byPlayer := make(map[uuid.UUID]models.BoxScorePlayer, len(players))
	for _, p := range players {
		byPlayer[p.PlayerID] = p
	}

	now := a.clock.Now()
	for _, s := range statuses {
		line, ok := byPlayer[s.PlayerID]
		if !ok {
			line = models.BoxScorePlayer{GameID: gameID, PlayerID: s.PlayerID, TeamSide: s.TeamSide}
		}
		delete(byPlayer, s.PlayerID)

		seconds, anomaly := minutes.LiveTotal(latest, s, now)
		if anomaly {
			log.Warn().
				Str("game_id", gameID.String()).
				Str("player_id", s.PlayerID.String()).
				Msg("negative live segment, serving settled total")
		}
		score.Players = append(score.Players, PlayerAggregate{
			BoxScorePlayer: line,
			SecondsPlayed:  seconds,
			OnCourt:        s.IsOnCourt,
		})
	}
	// Players that appear in the ledger but never received a status row.
	for _, line := range byPlayer {
		score.Players = append(score.Players, PlayerAggregate{BoxScorePlayer: line})
	}
	sort.Slice(score.Players, func(i, j int) bool {
		return score.Players[i].PlayerID.String() < score.Players[j].PlayerID.String()
	})

	if a.cache != nil {
		if err := a.cache.WriteBoxScore(ctx, gameID, score); err != nil {
			log.Warn().Err(err).Str("game_id", gameID.String()).Msg("box score cache write failed")
		}
	}
	return score, nil
}
