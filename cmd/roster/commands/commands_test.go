package commands

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/roster/internal/credentials"
	"github.com/five82/roster/internal/fakeapi"
	"github.com/five82/roster/internal/printer"
	"github.com/five82/roster/internal/student"
)

// cliEnv is an isolated config, store and token file for one test.
type cliEnv struct {
	dir       string
	cfgPath   string
	storePath string
	tokenFile string
}

func newCLIEnv(t *testing.T, baseURL string) *cliEnv {
	t.Helper()
	color.NoColor = true
	t.Setenv(credentials.EnvVar, "")

	dir := t.TempDir()
	e := &cliEnv{
		dir:       dir,
		cfgPath:   filepath.Join(dir, "config.toml"),
		storePath: filepath.Join(dir, "students.json"),
		tokenFile: filepath.Join(dir, "access_token"),
	}
	if baseURL == "" {
		baseURL = "http://127.0.0.1:9"
	}
	body := `
[api]
base_url = "` + baseURL + `"
timeout = "5s"
[store]
backend = "file"
path = "` + filepath.ToSlash(e.storePath) + `"
[log]
file = "` + filepath.ToSlash(filepath.Join(dir, "roster.log")) + `"
`
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(body), 0o644))
	return e
}

func (e *cliEnv) run(stdin string, args ...string) (string, string, error) {
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{
		"--config", e.cfgPath,
		"--token-file", e.tokenFile,
		"--env-file", filepath.Join(e.dir, "missing.env"),
	}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func remoteEnv(t *testing.T, seed ...student.Student) (*cliEnv, *fakeapi.Server) {
	t.Helper()
	log, _ := test.NewNullLogger()
	srv := fakeapi.New("tok", log, seed...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return newCLIEnv(t, ts.URL), srv
}

func bob() student.Student {
	return student.Student{ID: 7, Name: "Bob", Email: "bob@x.com", Grade: "B", CurrentPhase: "2", Course: student.CourseDataScience}
}

func TestAddThenList(t *testing.T) {
	e := newCLIEnv(t, "")

	out, _, err := e.run("", "add", "--name", "Ann", "--email", "ann@x.com", "--grade", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Ann with id 1")

	out, _, err = e.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "ann@x.com")

	out, _, err = e.run("", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ann"`)
}

func TestListEmpty(t *testing.T) {
	e := newCLIEnv(t, "")

	out, _, err := e.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No students yet.")

	out, _, err = e.run("", "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestAddMissingFieldFails(t *testing.T) {
	e := newCLIEnv(t, "")

	_, errOut, err := e.run("", "add", "--name", "Ann", "--email", "ann@x.com")
	require.Error(t, err)
	assert.True(t, printer.Reported(err))
	assert.Contains(t, errOut, "could not add student")
	assert.Contains(t, errOut, "grade")
	_, statErr := os.Stat(e.storePath)
	assert.True(t, os.IsNotExist(statErr), "rejected add must not write the store")
}

func TestEditAndRemove(t *testing.T) {
	e := newCLIEnv(t, "")
	_, _, err := e.run("", "add", "--name", "Ann", "--email", "ann@x.com", "--grade", "A")
	require.NoError(t, err)

	out, _, err := e.run("", "edit", "1", "--grade", "A+")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Ann")
	data, err := os.ReadFile(e.storePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"A+"`)

	_, _, err = e.run("", "edit", "1")
	assert.EqualError(t, err, "nothing to change")

	_, _, err = e.run("", "edit", "1", "--name", "")
	assert.EqualError(t, err, "could not save student")

	_, _, err = e.run("", "edit", "5", "--grade", "C")
	assert.EqualError(t, err, "student 5 not found")

	out, _, err = e.run("", "remove", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed student 1")

	_, errOut, err := e.run("", "remove", "1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "No student with id 1")
}

func TestRemovedIDNotReusedAcrossRuns(t *testing.T) {
	e := newCLIEnv(t, "")
	for _, name := range []string{"Ann", "Bo"} {
		_, _, err := e.run("", "add", "--name", name, "--email", "x@x.com", "--grade", "A")
		require.NoError(t, err)
	}
	_, _, err := e.run("", "remove", "2")
	require.NoError(t, err)

	out, _, err := e.run("", "add", "--name", "Cy", "--email", "c@x.com", "--grade", "B")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Cy with id 3")
}

func TestSetFlag(t *testing.T) {
	e := newCLIEnv(t, "")

	out, _, err := e.run("", "add", "--set", "name=Ann", "--set", "EMAIL=ann@x.com", "--grade", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Ann with id 1")

	out, _, err = e.run("", "edit", "1", "--set", "grade=A+=")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Ann")
	data, err := os.ReadFile(e.storePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"A+="`)

	_, errOut, err := e.run("", "add", "--set", "age=9")
	assert.EqualError(t, err, "invalid --set value")
	assert.Contains(t, errOut, `unknown field "age"`)

	_, _, err = e.run("", "edit", "1", "--set", "grade")
	assert.EqualError(t, err, "invalid --set value")

	_, errOut, err = e.run("", "edit", "1", "--set", "course=DevOps")
	assert.EqualError(t, err, "invalid --set value")
	assert.Contains(t, errOut, "cannot be set here")
}

func TestUpdateWithSetFlag(t *testing.T) {
	e, srv := remoteEnv(t, bob())

	_, _, err := e.run("", "--token", "tok", "update", "7", "--set", "current_phase=4", "--set", "course=devops")
	require.NoError(t, err)

	got, ok := srv.Student(7)
	require.True(t, ok)
	assert.Equal(t, "4", got.CurrentPhase)
	assert.Equal(t, student.CourseDevOps, got.Course)
}

func TestInvalidID(t *testing.T) {
	e := newCLIEnv(t, "")
	_, _, err := e.run("", "remove", "abc")
	assert.EqualError(t, err, "invalid student id")
	_, _, err = e.run("", "show", "0")
	assert.EqualError(t, err, "invalid student id")
}

func TestShow(t *testing.T) {
	e, _ := remoteEnv(t, bob())

	out, _, err := e.run("", "--token", "tok", "show", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "Data Science")

	_, errOut, err := e.run("", "--token", "tok", "show", "99")
	assert.EqualError(t, err, "could not fetch student 99")
	assert.Contains(t, errOut, "Student not found")
}

func TestShowWithoutTokenWarns(t *testing.T) {
	e, _ := remoteEnv(t, bob())

	_, errOut, err := e.run("", "show", "7")
	require.Error(t, err)
	assert.Contains(t, errOut, "No access token configured")
}

func TestUpdate(t *testing.T) {
	e, srv := remoteEnv(t, bob())

	out, _, err := e.run("", "--token", "tok", "update", "7", "--course", "devops", "--grade", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Student updated successfully!")
	assert.Contains(t, out, "DevOps")

	got, ok := srv.Student(7)
	require.True(t, ok)
	assert.Equal(t, student.CourseDevOps, got.Course)
	assert.Equal(t, "A", got.Grade)
	assert.Equal(t, "Bob", got.Name)
}

func TestUpdateRejectsUnknownCourseWithoutPatching(t *testing.T) {
	e, srv := remoteEnv(t, bob())

	_, errOut, err := e.run("", "--token", "tok", "update", "7", "--course", "Basket Weaving")
	assert.EqualError(t, err, "could not update student")
	assert.Contains(t, errOut, "Courses: ")
	assert.Equal(t, 1, srv.Requests(), "only the initial fetch may reach the server")

	got, _ := srv.Student(7)
	assert.Equal(t, student.CourseDataScience, got.Course)
}

func TestUpdateNeedsAField(t *testing.T) {
	e, _ := remoteEnv(t, bob())
	_, _, err := e.run("", "--token", "tok", "update", "7")
	assert.EqualError(t, err, "nothing to update")
}

func TestUpdateServerFailure(t *testing.T) {
	e, srv := remoteEnv(t, bob())
	srv.FailNext(fakeapi.Fault{Method: "PATCH", Status: 500, Message: "database is down"})

	_, errOut, err := e.run("", "--token", "tok", "update", "7", "--grade", "C")
	assert.EqualError(t, err, "could not update student")
	assert.Contains(t, errOut, "database is down")
}

func TestDelete(t *testing.T) {
	e, srv := remoteEnv(t, bob())

	out, _, err := e.run("n\n", "--token", "tok", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete Bob? [y/N]")
	assert.Contains(t, out, "Delete cancelled.")
	_, ok := srv.Student(7)
	assert.True(t, ok)

	out, _, err = e.run("y\n", "--token", "tok", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Student deleted successfully!")
	_, ok = srv.Student(7)
	assert.False(t, ok)
}

func TestDeleteYesSkipsPrompt(t *testing.T) {
	e, srv := remoteEnv(t, bob())

	out, _, err := e.run("", "--token", "tok", "delete", "7", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	_, ok := srv.Student(7)
	assert.False(t, ok)
}

func TestLogin(t *testing.T) {
	e := newCLIEnv(t, "")

	out, _, err := e.run("", "login", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "Access token saved")
	data, err := os.ReadFile(e.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", string(data))

	_, _, err = e.run("from-stdin\n", "login")
	require.NoError(t, err)
	data, err = os.ReadFile(e.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "from-stdin\n", string(data))

	_, _, err = e.run("\n", "login")
	assert.EqualError(t, err, "no token given")
}

func TestRootRejectsUnknownFlagsAndArgs(t *testing.T) {
	e := newCLIEnv(t, "")

	_, _, err := e.run("", "--goal", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")

	_, _, err = e.run("", "stray")
	require.Error(t, err)
}

func TestBadConfigIsReported(t *testing.T) {
	e := newCLIEnv(t, "")
	require.NoError(t, os.WriteFile(e.cfgPath, []byte("[store]\nbackend = \"tape\"\n"), 0o644))

	_, errOut, err := e.run("", "list")
	assert.EqualError(t, err, "could not start roster")
	assert.Contains(t, errOut, "unknown store.backend")
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	t.Cleanup(func() { versionString = "dev" })
	assert.Equal(t, "1.2.3 (commit: abc, built: today)", NewRootCmd().Version)
}

func TestLogsShowsCommandHistory(t *testing.T) {
	e := newCLIEnv(t, "")

	out, _, err := e.run("", "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "No log entries")

	_, _, err = e.run("", "add", "--name", "Ann", "--email", "ann@x.com", "--grade", "A")
	require.NoError(t, err)

	out, _, err = e.run("", "logs", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "roster started")

	out, _, err = e.run("", "logs", "--level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "No log entries")

	_, _, err = e.run("", "logs", "--level", "loud")
	assert.EqualError(t, err, "invalid log level")
}
