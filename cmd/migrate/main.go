package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/comments-api/internal/config"
	"github.com/comments-api/internal/database"
	"github.com/comments-api/pkg/logger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var (
	migrationsPath string
	db             *database.DB
)

// openDB connects to the database; tests swap it for a mock
var openDB = database.New

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the comments database schema",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dbCfg := config.LoadDatabase()
		if migrationsPath == "" {
			migrationsPath = dbCfg.MigrationsPath
		}

		log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		conn, err := openDB(&dbCfg, log)
		if err != nil {
			return err
		}
		db = conn
		return nil
	},
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.RunMigrations(migrationsPath)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last applied migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.MigrateDown(migrationsPath)
	},
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return db.MigrateToVersion(migrationsPath, uint(version))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		version, dirty, err := db.MigrationVersion(migrationsPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&migrationsPath, "path", "p", "", "migrations directory (defaults to MIGRATIONS_PATH)")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(gotoCmd)
	rootCmd.AddCommand(versionCmd)
}

// run executes the command line and always releases the connection,
// including when a subcommand fails
func run(args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if db != nil {
		db.Close()
		db = nil
	}
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
