package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/cli/activities"
	"github.com/hearth-planner/hearth/internal/cli/calendar"
	"github.com/hearth-planner/hearth/internal/cli/checkins"
	"github.com/hearth-planner/hearth/internal/cli/roadmap"
	"github.com/hearth-planner/hearth/internal/cli/schedules"
	syncmd "github.com/hearth-planner/hearth/internal/cli/sync"
	"github.com/hearth-planner/hearth/internal/cli/system"
	"github.com/hearth-planner/hearth/internal/constants"
	apperrors "github.com/hearth-planner/hearth/internal/errors"
	"github.com/hearth-planner/hearth/internal/keyring"
	"github.com/hearth-planner/hearth/internal/logger"
	"github.com/hearth-planner/hearth/internal/storage"
	"github.com/hearth-planner/hearth/internal/storage/postgres"
	"github.com/hearth-planner/hearth/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path (SQLite file) or Postgres connection string." type:"path" default:"${default_config_path}"`
	Owner   string `help:"Owner whose data the command operates on." default:"default"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize hearth storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending schema migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks against the storage backend."`

	Activity struct {
		Add     activities.AddCmd     `cmd:"" help:"Add a new activity."`
		List    activities.ListCmd    `cmd:"" help:"List activities."`
		Archive activities.ArchiveCmd `cmd:"" help:"Archive an activity and hide its calendar rows."`
		Restore activities.RestoreCmd `cmd:"" help:"Restore an archived activity."`
	} `cmd:"" help:"Manage activities."`

	Schedule struct {
		Add schedules.AddCmd `cmd:"" help:"Attach a schedule to an activity."`
	} `cmd:"" help:"Manage activity schedules."`

	Checkin  checkins.CheckinCmd  `cmd:"" help:"Record a daily check-in for an activity."`
	Calendar calendar.CalendarCmd `cmd:"" help:"Show the unified calendar view."`
	Sync     syncmd.SyncCmd       `cmd:"" help:"Pick roadmap items to sync via the interactive tree."`

	Roadmap struct {
		Import roadmap.ImportCmd `cmd:"" help:"Import a roadmap JSON export."`
	} `cmd:"" help:"Manage the roadmap hierarchy."`

	Credentials struct {
		Set    system.CredentialsSetCmd    `cmd:"" help:"Store a Postgres connection string in the system keyring."`
		Clear  system.CredentialsClearCmd  `cmd:"" help:"Remove the stored connection string."`
		Status system.CredentialsStatusCmd `cmd:"" help:"Show whether a connection string is stored."`
	} `cmd:"" help:"Manage stored database credentials."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Activity planner with calendar projection and selective roadmap sync"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, NoExpandSubcommands: true}),
		kong.Vars{
			"version":               constants.Version,
			"default_config_path":   constants.DefaultConfigPath,
			"default_timezone":      constants.DefaultTimezone,
			"default_calendar_days": strconv.Itoa(constants.DefaultCalendarDays),
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store, err := selectStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store: store,
		Owner: CLI.Owner,
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

// selectStore picks a backend from the config value. Postgres connection
// strings go to the Postgres store; anything else is treated as a SQLite
// path. When the config is untouched and the keyring holds a connection
// string, the keyring wins.
func selectStore(config string) (storage.Provider, error) {
	if storage.IsPostgresConnString(config) {
		if storage.HasEmbeddedCredentials(config) {
			return nil, fmt.Errorf("connection string contains an embedded password; store it with 'hearth credentials set' instead")
		}
		return postgres.NewStore(config), nil
	}

	if isDefaultConfig(config) {
		if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
			return postgres.NewStore(connStr), nil
		}
	}

	return sqlite.NewStore(config), nil
}

// isDefaultConfig reports whether the config flag still points at the stock
// location. Kong expands ~ before we see the value, so resolve the default
// the same way before comparing; any other path is an explicit choice and
// never falls through to the keyring.
func isDefaultConfig(config string) bool {
	if config == constants.DefaultConfigPath {
		return true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	return config == filepath.Join(home, strings.TrimPrefix(constants.DefaultConfigPath, "~/"))
}

func configDir(config string) string {
	if storage.IsPostgresConnString(config) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(home, ".config", constants.AppName)
	}
	return filepath.Dir(config)
}
