package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTail(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf(`time="2026-01-01T00:00:0%dZ" level=info msg="line %d"`, i%10, i))
	}
	path := writeLog(t, all...)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "partial", maxLines: 5, expected: all[5:]},
		{name: "exactly all", maxLines: 10, expected: all},
		{name: "more than exists", maxLines: 20, expected: all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(path, tt.maxLines, logrus.TraceLevel)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTail_FiltersByLevel(t *testing.T) {
	path := writeLog(t,
		`time="t" level=debug msg="noise"`,
		`time="t" level=warning msg="save failed"`,
		`  continuation`,
		`time="t" level=info msg="started"`,
		`time="t" level=error msg="boom"`,
	)

	got, err := Tail(path, 10, logrus.WarnLevel)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	want := []string{
		`time="t" level=warning msg="save failed"`,
		`  continuation`,
		`time="t" level=error msg="boom"`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tail() = %v, want %v", got, want)
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10, logrus.InfoLevel)
	if err != nil || got != nil {
		t.Fatalf("Tail() = %v, %v; want nil, nil", got, err)
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		line string
		want logrus.Level
		ok   bool
	}{
		{`time="t" level=info msg="x"`, logrus.InfoLevel, true},
		{`level=warning msg="x"`, logrus.WarnLevel, true},
		{`time="t" level="error" msg="x"`, logrus.ErrorLevel, true},
		{`msg="sublevel=info"`, 0, false},
		{`plain text`, 0, false},
		{`level=loud`, 0, false},
	}
	for _, tt := range tests {
		got, ok := LevelOf(tt.line)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("LevelOf(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestColorize_NoColorIsIdentity(t *testing.T) {
	color.NoColor = true
	line := `time="t" level=error msg="boom"`
	if got := Colorize(line); got != line {
		t.Fatalf("Colorize() = %q, want %q", got, line)
	}
}
