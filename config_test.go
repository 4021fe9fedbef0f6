package notionrender

import (
	"strings"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-notion-render/metadata"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Token = "secret"
	cfg.Schema = metadata.Schema{Fields: []metadata.Field{
		{Name: "Title", Type: metadata.TypeTitle, Required: true},
	}}
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TitleField != "Title" {
		t.Fatalf("default title field mismatch, got %q", cfg.TitleField)
	}
	if cfg.MaxRetries != 3 || cfg.FetchConcurrency != 4 {
		t.Fatalf("default retry/concurrency mismatch: %+v", cfg)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("default logging mismatch: %+v", cfg.Logging)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestConfig_ValidateRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Token = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestConfig_ValidateRequiresDeclaredTitleField(t *testing.T) {
	cfg := validConfig()
	cfg.TitleField = "Name"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "title_field") {
		t.Fatalf("expected title_field error, got %v", err)
	}
}

func TestConfig_ValidateRejectsEmptySchema(t *testing.T) {
	cfg := validConfig()
	cfg.Schema = metadata.Schema{}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestConfig_ValidateRejectsUnknownLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging format error, got %v", err)
	}
}

func TestConfig_ValidateRequiresRouteNames(t *testing.T) {
	cfg := validConfig()
	cfg.Routes.Config = &urlkit.Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected route errors")
	}
	for _, want := range []string{"routes.group", "routes.route"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s error, got %v", want, err)
		}
	}
}
