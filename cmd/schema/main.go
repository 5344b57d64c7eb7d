package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"moorfell/server/internal/net/proto"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for name, schema := range buildSchemas() {
		if err := writeSchema(filepath.Join(outDir, name), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func buildSchemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}

	describe := func(v any, title, desc string) *jsonschema.Schema {
		schema := reflector.Reflect(v)
		schema.Title = title
		schema.Description = desc
		return schema
	}

	return map[string]*jsonschema.Schema{
		"path_request.schema.json": describe(new(proto.PathRequest),
			"Path Request",
			"Client query for a path between two world positions."),
		"path_response.schema.json": describe(new(proto.PathResponse),
			"Path Response",
			"Server reply carrying the waypoint list, or found=false."),
		"entity_update.schema.json": describe(new(proto.EntityUpdate),
			"Entity Update",
			"Full replacement of the dynamic obstacle set."),
		"error.schema.json": describe(new(proto.ErrorMessage),
			"Error",
			"Rejection of a malformed or unanswerable message."),
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
