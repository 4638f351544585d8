package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"

	"github.com/lborres/marquee"
	fiberadapter "github.com/lborres/marquee/adapters/fiber"
	pgxadapter "github.com/lborres/marquee/adapters/pgx"
	"github.com/lborres/marquee/internal/config"
	"github.com/lborres/marquee/internal/logging"
	"github.com/lborres/marquee/migrations"
)

func main() {
	logger := logging.New(nil)

	app := &cli.Command{
		Name:    "marquee",
		Usage:   "Per-user movie state backend",
		Version: "0.1.0",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run migrations and start the HTTP server",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := logging.New(nil)
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			dbLogger := logging.With(logger, "component", "db")

			if err := runMigrations(ctx, cfg.Database.DSN, false); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			dbLogger.Info("migrations applied")

			poolCfg, err := newPoolConfig(cfg)
			if err != nil {
				return err
			}

			pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer pool.Close()

			store := pgxadapter.New(pool)
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("store not ready: %w", err)
			}

			app := fiber.New()
			app.Use(fiberlogger.New())

			_, err = marquee.New(marquee.Config{
				Database:   store,
				HTTP:       fiberadapter.New(app).WithHealthCheck(store),
				BasePath:   cfg.Server.BasePath,
				TokenBytes: cfg.Auth.TokenBytes,
			})
			if err != nil {
				return fmt.Errorf("wire services: %w", err)
			}

			logging.With(logger, "component", "http").Info("listening", "addr", cfg.Addr())
			return app.Listen(cfg.Addr())
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "down",
				Usage: "Roll back the most recent migration",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return runMigrations(ctx, cfg.Database.DSN, cmd.Bool("down"))
		},
	}
}

// loadConfig falls back to defaults only when no file exists at path;
// a file that is present but unparseable or invalid is an error, never
// silently replaced.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newPoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	}
	if cfg.Database.ConnLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.Database.ConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("conn lifetime: %w", err)
		}
		poolCfg.MaxConnLifetime = lifetime
	}
	return poolCfg, nil
}

func runMigrations(ctx context.Context, dsn string, down bool) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if down {
		return goose.DownContext(ctx, db, ".")
	}
	return goose.UpContext(ctx, db, ".")
}
