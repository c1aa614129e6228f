package commands

import (
	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/logtail"
	"github.com/five82/roster/internal/printer"
)

func newLogsCmd(g *globalFlags) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:     "logs",
		Short:   "Show the end of the roster log file",
		Example: "  roster logs -n 100 --level warn",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return p.Error("could not read config", err.Error())
			}
			threshold, err := logging.ParseLevel(level)
			if err != nil {
				return p.Error("invalid log level", err.Error(), "Use one of: trace, debug, info, warn, error")
			}
			out, err := logtail.Tail(cfg.Log.File, lines, threshold)
			if err != nil {
				return err
			}
			if len(out) == 0 {
				p.Info("No log entries in %s", cfg.Log.File)
				return nil
			}
			for _, line := range out {
				p.Println(logtail.Colorize(line))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&level, "level", "trace", "Only show entries at this level or more severe")
	return cmd
}
