package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	notionrender "github.com/goliatone/go-notion-render"
	"github.com/goliatone/go-notion-render/metadata"
)

func main() {
	if err := runExport(os.Args[1:]); err != nil {
		log.Fatalf("notion export: %v", err)
	}
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("notion-export", flag.ExitOnError)
	token := fs.String("token", os.Getenv("NOTION_TOKEN"), "Integration token (defaults to NOTION_TOKEN)")
	pageID := fs.String("page", "", "Render a single page by id")
	databaseID := fs.String("database", "", "Render every entry of a database by id")
	outDir := fs.String("out", "dist", "Directory receiving rendered HTML fragments")
	titleField := fs.String("title-field", "Title", "Schema field used as the entry title")
	fields := fs.String("fields", "Title:title", "Comma separated schema declaration, e.g. Title:title,Tags:multi_select,Date:date")
	logLevel := fs.String("log-level", "info", "Log level (trace|debug|info|warn|error)")
	logFormat := fs.String("log-format", "console", "Log format (json|console|pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pageID == "" && *databaseID == "" {
		return fmt.Errorf("one of -page or -database is required")
	}

	schema, err := parseSchema(*fields)
	if err != nil {
		return err
	}

	cfg := notionrender.DefaultConfig()
	cfg.Token = *token
	cfg.Schema = schema
	cfg.TitleField = *titleField
	cfg.Logging = notionrender.LoggingConfig{
		Enabled: true,
		Level:   *logLevel,
		Format:  *logFormat,
	}

	engine, err := notionrender.New(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	ctx := context.Background()
	if *pageID != "" {
		entry, err := engine.RenderPage(ctx, *pageID, nil)
		if err != nil {
			return err
		}
		return writeEntry(*outDir, entry)
	}

	batch, err := engine.RenderDatabase(ctx, *databaseID, nil)
	if err != nil {
		return err
	}
	for _, result := range batch.Entries {
		if result.Err != nil {
			log.Printf("skipped %s: %v", result.ID, result.Err)
			continue
		}
		if err := writeEntry(*outDir, result.Entry); err != nil {
			return err
		}
	}
	if failed := batch.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d entries failed to render", len(failed), len(batch.Entries))
	}
	return nil
}

// parseSchema turns "Title:title,Tags:multi_select" into a schema
// declaration.
func parseSchema(spec string) (metadata.Schema, error) {
	var schema metadata.Schema
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, kind, ok := strings.Cut(part, ":")
		if !ok {
			return metadata.Schema{}, fmt.Errorf("invalid field declaration %q (want name:type)", part)
		}
		schema.Fields = append(schema.Fields, metadata.Field{
			Name: strings.TrimSpace(name),
			Type: metadata.PropertyType(strings.TrimSpace(kind)),
		})
	}
	return schema, schema.Validate()
}

func writeEntry(outDir string, entry *notionrender.Entry) error {
	path := filepath.Join(outDir, entry.Slug+".html")
	if err := os.WriteFile(path, []byte(entry.HTML), 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}
