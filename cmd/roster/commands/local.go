package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/printer"
	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/student"
)

const addUsage = "roster add --name NAME --email EMAIL --grade GRADE"

func newListCmd(g *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students in the local roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, p, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			students := svc.Roster.Students()
			if asJSON {
				if students == nil {
					students = []student.Student{}
				}
				enc := json.NewEncoder(p.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(students)
			}
			if len(students) == 0 {
				p.Info("No students yet.")
				p.Info("")
				p.Info("Add one with:\n  %s", addUsage)
				return nil
			}
			p.Println(studentTable(students))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func studentTable(students []student.Student) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "EMAIL", "GRADE")
	for _, s := range students {
		t.Row(strconv.FormatInt(s.ID, 10), s.Name, s.Email, s.Grade)
	}
	return t.Render()
}

// fieldFlags binds one string flag per student field plus a repeatable
// --set FIELD=VALUE flag.
type fieldFlags struct {
	cmd    *cobra.Command
	fields []student.Field
	values map[student.Field]*string
	sets   []string
	parsed []fieldValue
}

type fieldValue struct {
	field student.Field
	value string
}

func bindFields(cmd *cobra.Command, fields []student.Field) *fieldFlags {
	f := &fieldFlags{cmd: cmd, fields: fields, values: map[student.Field]*string{}}
	for _, field := range fields {
		v := new(string)
		f.values[field] = v
		cmd.Flags().StringVar(v, flagName(field), "", "Student "+flagName(field))
	}
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Set a field as FIELD=VALUE (repeatable)")
	return f
}

// parse resolves the --set values. It must run before visit.
func (f *fieldFlags) parse() error {
	f.parsed = f.parsed[:0]
	for _, raw := range f.sets {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("%q is not FIELD=VALUE", raw)
		}
		field, err := student.ParseField(name)
		if err != nil {
			return err
		}
		if !f.accepts(field) {
			return fmt.Errorf("field %q cannot be set here", name)
		}
		f.parsed = append(f.parsed, fieldValue{field: field, value: value})
	}
	return nil
}

func (f *fieldFlags) accepts(field student.Field) bool {
	for _, known := range f.fields {
		if known == field {
			return true
		}
	}
	return false
}

// visit calls fn for every field the user set, named flags first and then
// --set values in order, and returns how many there were.
func (f *fieldFlags) visit(fn func(student.Field, string)) int {
	n := 0
	for _, field := range f.fields {
		if f.cmd.Flags().Changed(flagName(field)) {
			fn(field, *f.values[field])
			n++
		}
	}
	for _, fv := range f.parsed {
		fn(fv.field, fv.value)
		n++
	}
	return n
}

func setError(p *printer.Printer, err error) error {
	return p.Error("invalid --set value", err.Error(), "Fields: "+strings.Join(fieldNames(), ", "))
}

func fieldNames() []string {
	names := make([]string, 0, len(student.RemoteFields))
	for _, f := range student.RemoteFields {
		names = append(names, string(f))
	}
	return names
}

func newAddCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student to the local roster",
		Long: `Add a student to the local roster.

Name, email and grade are all required. The new student gets the next free
id and the roster is saved immediately.`,
		Example: "  " + addUsage,
		Args:    cobra.NoArgs,
	}
	fields := bindFields(cmd, student.LocalFields)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := fields.parse(); err != nil {
			return setError(printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr()), err)
		}
		svc, p, err := g.open(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		var candidate student.Student
		fields.visit(candidate.Set)
		added, err := svc.Roster.Add(candidate)
		if err != nil {
			return p.Error("could not add student", "All fields are required! ("+err.Error()+")", addUsage)
		}
		p.Success("Added %s with id %d", added.Name, added.ID)
		warnSave(p, svc.Roster)
		return nil
	}
	return cmd
}

func newEditCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit ID",
		Short:   "Edit a student in the local roster",
		Example: "  roster edit 3 --grade A+",
		Args:    cobra.ExactArgs(1),
	}
	fields := bindFields(cmd, student.LocalFields)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
		id, err := parseID(p, args[0])
		if err != nil {
			return err
		}
		if err := fields.parse(); err != nil {
			return setError(p, err)
		}
		svc, p, err := g.open(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		current, ok := svc.Roster.Find(id)
		if !ok {
			return p.Error(fmt.Sprintf("student %d not found", id), "", "List ids with:\n  roster list")
		}
		if discarded := svc.Roster.BeginEdit(current); discarded != nil && discarded.ID != id {
			p.Warning("Discarded an unsaved edit of %s", discarded.Name)
		}
		var n int
		svc.Roster.EditDraft(func(d *student.Student) { n = fields.visit(d.Set) })
		if n == 0 {
			svc.Roster.CancelEdit()
			return p.Error("nothing to change", "", "Pass at least one of --name, --email or --grade")
		}
		if _, err := svc.Roster.CommitEdit(); err != nil {
			svc.Roster.CancelEdit()
			return p.Error("could not save student", "All fields are required! ("+err.Error()+")")
		}
		updated, _ := svc.Roster.Find(id)
		p.Success("Updated %s", updated.Name)
		warnSave(p, svc.Roster)
		return nil
	}
	return cmd
}

func newRemoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a student from the local roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			id, err := parseID(p, args[0])
			if err != nil {
				return err
			}
			svc, p, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			if svc.Roster.Remove(id) {
				p.Success("Removed student %d", id)
			} else {
				p.Warning("No student with id %d", id)
			}
			warnSave(p, svc.Roster)
			return nil
		},
	}
}

func warnSave(p *printer.Printer, c *roster.Collection) {
	if err := c.LastSaveError(); err != nil {
		p.Warning("Could not save students: %v", err)
	}
}

func flagName(f student.Field) string {
	if f == student.FieldCurrentPhase {
		return "current-phase"
	}
	return string(f)
}
