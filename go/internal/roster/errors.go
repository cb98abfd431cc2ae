package roster

import "errors"

var (
	// ErrGameNotFound indicates the referenced game does not exist.
	ErrGameNotFound = errors.New("game not found")

	// ErrPlayerNotFound indicates the referenced player does not exist.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrStatusNotFound indicates no player-game-status row exists for the
	// (game, player) pair.
	ErrStatusNotFound = errors.New("player game status not found")

	// ErrStartersAlreadySet indicates statuses already exist for the game;
	// starters are a one-time initialization.
	ErrStartersAlreadySet = errors.New("starters already set for game")

	// ErrWrongStarterCount indicates a side did not name exactly five starters.
	ErrWrongStarterCount = errors.New("each side must name exactly five starters")

	// ErrPlayerNotInGame indicates a named player's team plays in neither
	// side of the game.
	ErrPlayerNotInGame = errors.New("player does not belong to either team in game")

	// ErrWrongSide indicates a starter was listed under the opposing side.
	ErrWrongSide = errors.New("player listed for the wrong side")
)
