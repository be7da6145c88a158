package main

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/saeidalz13/battleship-computer/api"
	"github.com/saeidalz13/battleship-computer/db"
	"github.com/saeidalz13/battleship-computer/db/sqlc"
	"github.com/saeidalz13/battleship-computer/internal/config"
	mc "github.com/saeidalz13/battleship-computer/models/connection"
	"github.com/saeidalz13/battleship-computer/models/match"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	log.SetLevel(cfg.LogLevel)

	sessionManager := mc.NewBattleshipSessionManager()
	go sessionManager.CleanupPeriodically()

	opts := []api.Option{api.WithStage(cfg.Stage)}
	if cfg.DatabaseURL != "" {
		psqlDb := db.MustConnectToDb(cfg.DatabaseURL, cfg.MigrationDir)
		defer psqlDb.Close()
		opts = append(opts, api.WithQuerier(sqlc.New(psqlDb)))
	} else {
		log.Warn("DATABASE_URL not set, analytics disabled")
	}

	rp, err := api.NewRequestProcessor(sessionManager, match.NewBattleshipGameManager(), opts...)
	if err != nil {
		log.Fatal("failed to create request processor", "err", err)
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	log.Info("listening", "addr", addr, "stage", cfg.Stage, "ip", rp.GetIpNet().IP.String())
	log.Fatal(http.ListenAndServe(addr, api.NewServeMux(rp)))
}
