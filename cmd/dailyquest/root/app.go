package root

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/example/dailyquest/internal/config"
	"github.com/example/dailyquest/internal/database"
	"github.com/example/dailyquest/internal/gateway"
	"github.com/example/dailyquest/internal/planner"
)

// app holds the services shared by every command.
type app struct {
	cfg     *config.Config
	db      *sqlx.DB
	game    *gateway.Service
	planner *planner.Planner
}

func openApp() (*app, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.Database())
	if err != nil {
		return nil, nil, err
	}

	game := gateway.NewService(db, gateway.Options{
		UserKey:  cfg.UserKey,
		Location: loc,
		Logger:   newLogger("gateway"),
	})
	a := &app{
		cfg:     cfg,
		db:      db,
		game:    game,
		planner: planner.New(db, game),
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	return a, cleanup, nil
}

func newLogger(component string) *log.Logger {
	return log.New(os.Stderr, component+": ", log.LstdFlags)
}
