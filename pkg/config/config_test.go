package config

import (
	"os"
	"testing"
)

type testConfig struct {
	Name    string `envconfig:"NAME" default:"fallback"`
	Port    int    `envconfig:"PORT" default:"8080"`
	Secret  string `envconfig:"SECRET"`
	WithReq string `envconfig:"WITH_REQ" required:"true"`
}

func TestNewAppliesPrefixAndDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "inbox-agent")
	t.Setenv("APP_WITH_REQ", "set")

	conf, err := New[testConfig]("APP")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "inbox-agent" {
		t.Fatalf("name = %q, want env value", conf.Name)
	}
	if conf.Port != 8080 {
		t.Fatalf("port = %d, want default 8080", conf.Port)
	}
}

func TestNewMissingRequiredFails(t *testing.T) {
	// t.Setenv registers the restore; the test needs the variable absent.
	t.Setenv("APP_WITH_REQ", "placeholder")
	os.Unsetenv("APP_WITH_REQ")

	if _, err := New[testConfig]("APP"); err == nil {
		t.Fatal("expected error for missing required variable")
	}
}
