package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikhil/togglenest/internal/config"
	"github.com/nikhil/togglenest/internal/database"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/middleware"
)

const (
	Version = "0.1.0"
	appName = "togglenest"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	loadConfig := func() (*config.Config, error) {
		if envFile != "" {
			return config.Load(envFile)
		}
		return config.Load()
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Project collaboration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load before the process environment (default .env)")

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), cfg)
		},
	})
	var (
		tokenEmail string
		tokenTTL   time.Duration
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an identity token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := middleware.IssueToken(tokenEmail, cfg.JWTSecret, tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim of the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.MarkFlagRequired("email")
	cmd.AddCommand(tokenCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func migrate(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger("migrate", cfg.AppEnv)
	defer log.Sync()

	if cfg.StoreDriver == config.DriverMongo {
		mdb, err := database.NewMongoDB(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer mdb.Close(ctx)
		if err := mdb.Initialize(ctx); err != nil {
			return err
		}
		log.Info("Indexes applied", "driver", cfg.StoreDriver)
		return nil
	}

	driver, dsn := sqlTarget(cfg)
	if driver == "" {
		log.Info("Store driver has no schema, nothing to migrate", "driver", cfg.StoreDriver)
		return nil
	}
	db, err := database.OpenSQL(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, driver); err != nil {
		return err
	}
	log.Info("Schema applied", "driver", driver)
	return nil
}

// sqlTarget maps the configured store to a SQL driver and DSN.
func sqlTarget(cfg *config.Config) (driver, dsn string) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return database.SQLite, cfg.SQLitePath
	case config.DriverMySQL:
		return database.MySQL, cfg.MySQLDSN()
	}
	return "", ""
}
