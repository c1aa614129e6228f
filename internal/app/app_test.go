package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/roster/internal/credentials"
	"github.com/five82/roster/internal/student"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestOpen_WiresFileStoreAndToken(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(credentials.EnvVar, "")
	storePath := filepath.Join(dir, "data", "students.json")
	cfgPath := writeConfig(t, dir, `
[api]
base_url = "http://127.0.0.1:9"
timeout = "2s"
[store]
backend = "file"
path = "`+filepath.ToSlash(storePath)+`"
[log]
file = "`+filepath.ToSlash(filepath.Join(dir, "roster.log"))+`"
level = "debug"
`)

	svc, err := Open(Options{ConfigPath: cfgPath, Token: "secret", TokenFile: filepath.Join(dir, "none")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer svc.Close()

	if svc.Token.Source != credentials.SourceFlag || svc.Token.Value != "secret" {
		t.Fatalf("Token = %+v, want secret from flag", svc.Token)
	}
	if got := svc.API.BaseURL(); got != "http://127.0.0.1:9" {
		t.Fatalf("API.BaseURL() = %q", got)
	}
	if svc.Roster.Len() != 0 {
		t.Fatalf("Roster.Len() = %d, want 0", svc.Roster.Len())
	}

	if _, err := svc.Roster.Add(student.Student{Name: "Ann", Email: "a@x.com", Grade: "A"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	data, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	if !strings.Contains(string(data), `"Ann"`) {
		t.Fatalf("store file = %s, want Ann", data)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "roster.log")); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestOpen_BackendOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `
[store]
path = "`+filepath.ToSlash(filepath.Join(dir, "students.json"))+`"
[log]
file = "`+filepath.ToSlash(filepath.Join(dir, "roster.log"))+`"
`)
	svc, err := Open(Options{ConfigPath: cfgPath, Backend: "memory", Token: "x"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer svc.Close()
	if _, err := svc.Roster.Add(student.Student{Name: "Ann", Email: "a@x.com", Grade: "A"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := os.Stat(svc.Config.Store.Path); !os.IsNotExist(err) {
		t.Fatalf("memory backend touched %s", svc.Config.Store.Path)
	}
}

func TestOpen_BadConfigFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "[store]\nbackend = \"carrier-pigeon\"\n")
	if _, err := Open(Options{ConfigPath: cfgPath}); err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Open() error = %v, want load config error", err)
	}
}

func TestOpen_BadLogLevelFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "")
	if _, err := Open(Options{ConfigPath: cfgPath, LogLevel: "loud"}); err == nil || !strings.Contains(err.Error(), "init logging") {
		t.Fatalf("Open() error = %v, want init logging error", err)
	}
}

func TestServicesClose_NilSafe(t *testing.T) {
	var s *Services
	if err := s.Close(); err != nil {
		t.Fatalf("Close() on nil = %v", err)
	}
}
