package main

import (
	"context"

	"github.com/Cheertaboi/deal-service/pkg/db"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *appContext) error {
	conn, err := db.NewPostgresConnection(app.cfg.Postgres)
	if err != nil {
		return err
	}
	defer conn.Close()

	applied, err := db.RunMigrations(context.Background(), conn)
	if err != nil {
		return err
	}
	app.log.Info().Strs("files", applied).Msg("all migrations applied")
	return nil
}
