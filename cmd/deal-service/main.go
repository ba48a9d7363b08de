package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/deal-service/internal/config"
	"github.com/Cheertaboi/deal-service/internal/logger"
)

const serviceName = "deal-service"

// appContext is handed to every command's Run method.
type appContext struct {
	cfg *config.Config
	log zerolog.Logger
}

var CLI struct {
	EnvFile []string `help:"Env files to load before reading the environment (default .env)." type:"path"`

	Serve    ServeCmd    `cmd:"" help:"Run the HTTP API." default:"1"`
	Migrate  MigrateCmd  `cmd:"" help:"Apply the database schema."`
	Evaluate EvaluateCmd `cmd:"" help:"Evaluate a deal file offline and print its availability."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(serviceName),
		kong.Description("Deal authoring, availability and redemption service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	cfg, err := config.LoadConfig(CLI.EnvFile...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	}, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid LOG_LEVEL: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := ctx.Run(&appContext{cfg: cfg, log: log}); err != nil {
		log.Error().Err(err).Str("command", ctx.Command()).Msg("command failed")
		closer.Close()
		os.Exit(1)
	}
}
