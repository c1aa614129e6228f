package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/app"
	"github.com/five82/roster/internal/credentials"
	"github.com/five82/roster/internal/detail"
	"github.com/five82/roster/internal/printer"
	"github.com/five82/roster/internal/student"
)

// remoteSession drives a detail.Controller synchronously for one command.
type remoteSession struct {
	svc *app.Services
	p   *printer.Printer
	c   *detail.Controller
	id  int64
}

func (g *globalFlags) openRemote(cmd *cobra.Command, arg string) (*remoteSession, error) {
	p := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	id, err := parseID(p, arg)
	if err != nil {
		return nil, err
	}
	svc, p, err := g.open(cmd)
	if err != nil {
		return nil, err
	}
	if svc.Token.Empty() {
		p.Warning("No access token configured. Set %s or run 'roster login'.", credentials.EnvVar)
	}
	s := &remoteSession{svc: svc, p: p, c: detail.New(svc.API, svc.Log), id: id}
	s.run(s.c.Mount(cmd.Context(), id))
	if s.c.Phase() != detail.PhaseViewing {
		failure := s.flush()
		svc.Close()
		return nil, p.Error(fmt.Sprintf("could not fetch student %d", id), failure)
	}
	s.flush()
	return s, nil
}

func (s *remoteSession) Close() error {
	s.c.Unmount()
	return s.svc.Close()
}

// run executes cmd and feeds each result back to the controller until the
// chain ends. A navigation request ends the chain.
func (s *remoteSession) run(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(detail.NavigateMsg); ok {
			return
		}
		cmd = s.c.Update(msg)
	}
}

// flush prints queued notices and returns the text of the last error
// notice, if any.
func (s *remoteSession) flush() string {
	var failure string
	for _, n := range s.c.Notices() {
		switch n.Level {
		case detail.LevelSuccess:
			s.p.Success("%s", n.Text)
		case detail.LevelError:
			failure = n.Text
		default:
			s.p.Step("%s", n.Text)
		}
	}
	s.c.DismissAll()
	return failure
}

func (s *remoteSession) print(asJSON bool) error {
	rec := s.c.State().Confirmed
	if asJSON {
		enc := json.NewEncoder(s.p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	for _, f := range student.RemoteFields {
		value := rec.Get(f)
		if value == "" {
			value = "N/A"
		}
		s.p.Info("%-14s %s", fieldTitle(f)+":", value)
	}
	return nil
}

func newShowCmd(g *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a student record from the portal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.openRemote(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			return s.print(asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newUpdateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a student record on the portal",
		Long: `Update a student record on the portal.

The record is fetched first and the given fields are applied on top of it.
Every field (name, email, grade, current phase and course) must end up
non-empty, and the course must be one the portal offers.`,
		Example: "  roster update 7 --course DevOps --current-phase 3",
		Args:    cobra.ExactArgs(1),
	}
	fields := bindFields(cmd, student.RemoteFields)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := fields.parse(); err != nil {
			return setError(printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr()), err)
		}
		s, err := g.openRemote(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.c.BeginEdit(); err != nil {
			return err
		}
		n := fields.visit(func(f student.Field, v string) {
			if f == student.FieldCourse {
				if c, err := student.ParseCourse(v); err == nil {
					v = string(c)
				}
			}
			_ = s.c.SetField(f, v)
		})
		if n == 0 {
			return s.p.Error("nothing to update", "",
				"Pass at least one of --name, --email, --grade, --current-phase or --course")
		}

		send, err := s.c.SubmitUpdate()
		if err != nil {
			s.flush()
			return s.p.Error("could not update student", err.Error(), courseHint())
		}
		s.run(send)
		if failure := s.flush(); s.c.Phase() != detail.PhaseViewing {
			return s.p.Error("could not update student", failure)
		}
		return s.print(false)
	}
	return cmd
}

func newDeleteCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a student record from the portal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.openRemote(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.c.RequestDelete(); err != nil {
				return err
			}
			confirmed := yes
			if !confirmed {
				name := s.c.State().Confirmed.Name
				fmt.Fprintf(s.p.Out, "Delete %s? [y/N]: ", name)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer := strings.ToLower(strings.TrimSpace(line))
				confirmed = answer == "y" || answer == "yes"
			}

			send, err := s.c.ConfirmDelete(confirmed)
			if err != nil {
				return err
			}
			if !confirmed {
				s.p.Info("Delete cancelled.")
				return nil
			}
			s.run(send)
			if failure := s.flush(); s.c.Phase() != detail.PhaseDeleted {
				return s.p.Error("could not delete student", failure)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func fieldTitle(f student.Field) string {
	switch f {
	case student.FieldCurrentPhase:
		return "Current Phase"
	case student.FieldCourse:
		return "Course"
	}
	name := string(f)
	return strings.ToUpper(name[:1]) + name[1:]
}

func courseHint() string {
	names := make([]string, 0, len(student.Courses()))
	for _, c := range student.Courses() {
		names = append(names, string(c))
	}
	return "Courses: " + strings.Join(names, ", ")
}
