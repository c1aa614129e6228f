package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/credentials"
	"github.com/five82/roster/internal/fakeapi"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/printer"
	"github.com/five82/roster/internal/student"
)

// sampleStudents seed the development server.
var sampleStudents = []student.Student{
	{ID: 1, Name: "Amina Otieno", Email: "amina@example.com", Grade: "A", CurrentPhase: "3", Course: student.CourseSoftwareEngineering},
	{ID: 2, Name: "Brian Kamau", Email: "brian@example.com", Grade: "B+", CurrentPhase: "2", Course: student.CourseDataScience},
	{ID: 3, Name: "Chloe Wanjiru", Email: "chloe@example.com", Grade: "A-", CurrentPhase: "4", Course: student.CourseDevOps},
}

func newFakeAPICmd() *cobra.Command {
	var (
		addr   string
		token  string
		noSeed bool
	)
	cmd := &cobra.Command{
		Use:   "fake-api",
		Short: "Serve an in-memory students API for development",
		Long: `Serve an in-memory students API with the same routes and error bodies as
the portal backend. Point api.base_url at it to try the detail view without
touching real records.`,
		Example: "  roster fake-api --addr 127.0.0.1:8080 --token dev",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			log, closeLog, err := logging.New(logging.Options{Level: "info", Fallback: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer closeLog()

			var seed []student.Student
			if !noSeed {
				seed = student.Clone(sampleStudents)
			}
			srv := fakeapi.New(token, log, seed...)
			p.Success("Fake students API listening on http://%s", addr)
			if token == "" {
				p.Warning("No token set; requests are not authenticated")
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token clients must send")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "Start with no students")
	return cmd
}

func newLoginCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login [TOKEN]",
		Short: "Save the portal access token",
		Long: fmt.Sprintf(`Save the portal access token to the token file so later commands can use it.

Without an argument the token is read from standard input. %s and
--token still take precedence over the saved token.`, credentials.EnvVar),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				fmt.Fprint(p.Out, "Access token: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				token = line
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return p.Error("no token given", "", "roster login TOKEN")
			}
			if err := credentials.Save(g.tokenFile, token); err != nil {
				return p.Error("could not save token", err.Error())
			}
			p.Success("Access token saved")
			return nil
		},
	}
}
