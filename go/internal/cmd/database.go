package main

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/courtside/go/internal/sqlutil"
)

func setupDatabase() (*sql.DB, error) {
	dbConfig := sqlutil.NewConfigFromEnv()

	database, err := dbConfig.Open()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user", dbConfig.User).
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("connected to database")
	return database, nil
}
