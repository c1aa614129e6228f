package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/app"
	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/credentials"
	"github.com/five82/roster/internal/printer"
)

var versionString = "dev"

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	prefsPath  string
	token      string
	envFile    string
	tokenFile  string
	logLevel   string
	backend    string
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		Token:      g.token,
		EnvFile:    g.envFile,
		TokenFile:  g.tokenFile,
		LogLevel:   g.logLevel,
		Backend:    g.backend,
	}
}

// open builds the services for one command run. Callers close them.
func (g *globalFlags) open(cmd *cobra.Command) (*app.Services, *printer.Printer, error) {
	p := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	svc, err := app.Open(g.options())
	if err != nil {
		path := g.configPath
		if path == "" {
			path = config.DefaultPath()
		}
		return nil, p, p.Error(
			"could not start roster",
			err.Error(),
			fmt.Sprintf("Check the config file:\n  %s", path),
		)
	}
	return svc, p, nil
}

// NewRootCmd builds the roster command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "roster",
		Short: "Roster - manage student records",
		Long: `Roster keeps a local list of students and manages student records on
the school portal API.

Run without a subcommand to open the terminal UI. The list view edits the
local roster; opening a student shows the record held by the portal, where
it can be updated or deleted.`,
		Version: versionString,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), g.options())
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default ~/.config/roster/config.toml)")
	pf.StringVar(&g.prefsPath, "prefs", "", "Preferences file (default ~/.config/roster/prefs.toml)")
	pf.StringVar(&g.token, "token", "", "API access token (overrides env and token file)")
	pf.StringVar(&g.envFile, "env-file", ".env", "Dotenv file to load before reading "+credentials.EnvVar)
	pf.StringVar(&g.tokenFile, "token-file", "", "Token file (default ~/.config/roster/access_token)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&g.backend, "backend", "", "Local store backend: file, redis or memory")

	root.AddCommand(
		newListCmd(g),
		newAddCmd(g),
		newEditCmd(g),
		newRemoveCmd(g),
		newShowCmd(g),
		newUpdateCmd(g),
		newDeleteCmd(g),
		newLoginCmd(g),
		newLogsCmd(g),
		newFakeAPICmd(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func parseID(p *printer.Printer, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, p.Error(
			"invalid student id",
			fmt.Sprintf("%q is not a positive number.", arg),
			"List ids with:\n  roster list",
		)
	}
	return id, nil
}
