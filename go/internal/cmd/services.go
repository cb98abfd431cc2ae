package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/mcdev12/courtside/go/internal/boxscore"
	"github.com/mcdev12/courtside/go/internal/clock"
	"github.com/mcdev12/courtside/go/internal/gameevents"
	"github.com/mcdev12/courtside/go/internal/gateway"
	"github.com/mcdev12/courtside/go/internal/httpapi"
	"github.com/mcdev12/courtside/go/internal/minutes"
	"github.com/mcdev12/courtside/go/internal/roster"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/mcdev12/courtside/go/internal/substitution"
)

type Services struct {
	Handler *httpapi.Handler
}

func setupServices(database *sql.DB, publisher httpapi.Publisher, gw *gateway.ConnectionManager, redisClient *redis.Client) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → HTTP layer
	clk := clockwork.NewRealClock()
	txr := sqlutil.Runner{DB: database}

	sessionRepo := clock.NewRepository()
	statusRepo := roster.NewRepository()
	eventRepo := gameevents.NewRepository()
	projectionRepo := boxscore.NewRepository()
	accountant := minutes.NewAccountant()

	aggregator := boxscore.NewAggregator(eventRepo, projectionRepo)

	clockApp := clock.NewApp(sessionRepo, statusRepo, accountant, txr, database, clk)
	rosterApp := roster.NewApp(statusRepo, txr, database)
	eventsApp := gameevents.NewApp(eventRepo, aggregator, txr, database, clk)
	subs := substitution.NewCoordinator(sessionRepo, statusRepo, accountant, eventRepo, txr, clk)

	var cache boxscore.Cache
	if redisClient != nil {
		cache = boxscore.NewRedisCache(redisClient)
	}
	boxApp := boxscore.NewApp(sessionRepo, statusRepo, projectionRepo, cache, database, clk)

	handler := httpapi.NewHandler(clockApp, rosterApp, eventsApp, subs, boxApp, publisher, gw, database)

	return &Services{Handler: handler}
}
