package notionrender

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-notion-render/metadata"
)

// LoggingConfig mirrors the options accepted by the go-logger provider.
type LoggingConfig struct {
	Enabled   bool
	Level     string
	Format    string
	AddSource bool
}

// RoutesConfig wires resolved cross-references through a urlkit route table.
// When Config is nil, links use the default /posts/<slug>/ layout.
type RoutesConfig struct {
	Config    *urlkit.Config
	Group     string
	Route     string
	SlugParam string
}

// Config assembles an Engine.
type Config struct {
	// Token authenticates against the remote content service.
	Token string

	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	MaxRetries uint64

	// FetchConcurrency bounds parallel sibling subtree fetches.
	FetchConcurrency int

	// Schema declares the metadata properties of each entry; TitleField names
	// the schema field whose value seeds the entry slug.
	Schema     metadata.Schema
	TitleField string

	Logging LoggingConfig
	Routes  RoutesConfig
}

// DefaultConfig returns a configuration with every optional knob at its
// default. Token and Schema must still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		FetchConcurrency: 4,
		TitleField:       "Title",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate reports configuration mistakes before any I/O happens.
func (c Config) Validate() error {
	errs := validation.Errors{}

	if c.Token == "" {
		errs["token"] = validation.NewError("notionrender.config.token_required", "integration token is required")
	}
	if c.TitleField == "" {
		errs["title_field"] = validation.NewError("notionrender.config.title_field_required", "title field is required")
	}
	if err := c.Schema.Validate(); err != nil {
		errs["schema"] = validation.NewError("notionrender.config.schema_invalid", err.Error())
	} else if c.TitleField != "" && !schemaDeclares(c.Schema, c.TitleField) {
		errs["title_field"] = validation.NewError("notionrender.config.title_field_unknown", "title field is not declared in the schema")
	}

	switch c.Logging.Format {
	case "", "json", "console", "pretty":
	default:
		errs["logging.format"] = validation.NewError("notionrender.config.logging_format_invalid", "logging format must be json, console or pretty")
	}

	if c.Routes.Config != nil {
		if c.Routes.Group == "" {
			errs["routes.group"] = validation.NewError("notionrender.config.routes_group_required", "route group is required when a route table is configured")
		}
		if c.Routes.Route == "" {
			errs["routes.route"] = validation.NewError("notionrender.config.routes_route_required", "route name is required when a route table is configured")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func schemaDeclares(schema metadata.Schema, name string) bool {
	for _, field := range schema.Fields {
		if field.Name == name {
			return true
		}
	}
	return false
}
