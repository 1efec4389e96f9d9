// Package cli implements the meeting-planner CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rcliao/meeting-planner/internal/config"
	appLog "github.com/rcliao/meeting-planner/internal/log"
	"github.com/rcliao/meeting-planner/internal/store"
	"github.com/rcliao/meeting-planner/internal/weekdate"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	formatFlag string
	verbose    bool

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "meeting-planner",
	Short: "Meeting schedule planner",
	Long:  "Imports historical meeting schedules from PDF, keeps assignment history in SQLite and renders weekly timelines.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err == nil {
			appLog.Debug("loaded .env")
		}

		c, err := config.Load(getConfigPath())
		if err != nil {
			exitErr("load config", err)
		}
		c.ApplyEnv()
		cfg = c

		level := appLog.ParseLevel(cfg.LogLevel)
		if verbose {
			level = appLog.LevelDebug
		}
		appLog.SetLevel(level)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MEETING_PLANNER_DB or ~/.meeting-planner/meetings.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config path (default: $MEETING_PLANNER_CONFIG or ~/.meeting-planner/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv(config.EnvConfig); env != "" {
		return env
	}
	return config.DefaultPath()
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath
	}
	return config.DefaultDBPath()
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// weekArg normalizes a week given on the command line, assuming the current
// year when it names none.
func weekArg(raw string) string {
	return weekdate.StandardizeWeekDate(raw, time.Now().Year())
}
