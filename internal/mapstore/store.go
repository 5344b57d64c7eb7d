// Package mapstore persists named maps: a heightmap plus the placed
// objects standing on it. Heights are stored as a zstd-compressed
// little-endian float32 blob; placed objects are stored as a JSON
// document validated against a schema on both save and load, so a map
// written by an older build or edited by hand fails loudly instead of
// classifying garbage into obstacles.
package mapstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	_ "modernc.org/sqlite"

	"moorfell/server/internal/nav"
	"moorfell/server/internal/terrain"
)

// ErrNotFound reports a map name with no row.
var ErrNotFound = errors.New("mapstore: map not found")

const objectsSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type", "position", "rotation", "scale"],
    "properties": {
      "type": {"type": "string"},
      "position": {"$ref": "#/$defs/vec3"},
      "rotation": {"$ref": "#/$defs/vec3"},
      "scale": {"$ref": "#/$defs/vec3"}
    },
    "additionalProperties": false
  },
  "$defs": {
    "vec3": {
      "type": "array",
      "items": {"type": "number"},
      "minItems": 3,
      "maxItems": 3
    }
  }
}`

type Store struct {
	db      *sql.DB
	schema  *jsonschema.Schema
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open creates or opens the map database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("mapstore: empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema, err := jsonschema.CompileString("placed_objects.schema.json", objectsSchemaJSON)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("compile objects schema: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, schema: schema, encoder: encoder, decoder: decoder}, nil
}

func initSchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		cell_size REAL NOT NULL,
		heights BLOB NOT NULL,
		objects_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

// SaveMap upserts a named map.
func (s *Store) SaveMap(ctx context.Context, name string, hm *terrain.Heightmap, objects []nav.PlacedObject) error {
	if name == "" {
		return fmt.Errorf("mapstore: empty map name")
	}
	if err := hm.Validate(); err != nil {
		return fmt.Errorf("mapstore: %w", err)
	}
	if objects == nil {
		objects = []nav.PlacedObject{}
	}

	objectsJSON, err := json.Marshal(objects)
	if err != nil {
		return fmt.Errorf("marshal objects: %w", err)
	}
	if err := s.validateObjects(objectsJSON); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO maps (name, width, height, cell_size, heights, objects_json, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			cell_size = excluded.cell_size,
			heights = excluded.heights,
			objects_json = excluded.objects_json,
			updated_at = excluded.updated_at`,
		name, hm.Width, hm.Height, hm.CellSize,
		s.compressHeights(hm.Heights), string(objectsJSON),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}
	return nil
}

// LoadMap reads a named map back. Returns ErrNotFound for an unknown
// name.
func (s *Store) LoadMap(ctx context.Context, name string) (*terrain.Heightmap, []nav.PlacedObject, error) {
	var (
		width, height int
		cellSize      float64
		blob          []byte
		objectsJSON   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT width, height, cell_size, heights, objects_json FROM maps WHERE name = ?`, name).
		Scan(&width, &height, &cellSize, &blob, &objectsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load map %q: %w", name, err)
	}

	heights, err := s.decompressHeights(blob, width*height)
	if err != nil {
		return nil, nil, fmt.Errorf("load map %q: %w", name, err)
	}
	hm := &terrain.Heightmap{
		Width:    width,
		Height:   height,
		CellSize: float32(cellSize),
		Heights:  heights,
	}
	if err := hm.Validate(); err != nil {
		return nil, nil, fmt.Errorf("load map %q: %w", name, err)
	}

	if err := s.validateObjects([]byte(objectsJSON)); err != nil {
		return nil, nil, fmt.Errorf("load map %q: %w", name, err)
	}
	var objects []nav.PlacedObject
	if err := json.Unmarshal([]byte(objectsJSON), &objects); err != nil {
		return nil, nil, fmt.Errorf("load map %q: unmarshal objects: %w", name, err)
	}
	return hm, objects, nil
}

// ListMaps reports the stored map names, sorted.
func (s *Store) ListMaps(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM maps ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteMap removes a named map; deleting an absent name is a no-op.
func (s *Store) DeleteMap(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM maps WHERE name = ?`, name)
	return err
}

func (s *Store) validateObjects(doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("objects document: %w", err)
	}
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("objects document: %w", err)
	}
	return nil
}

func (s *Store) compressHeights(heights []float32) []byte {
	raw := make([]byte, 4*len(heights))
	for i, h := range heights {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(h))
	}
	return s.encoder.EncodeAll(raw, nil)
}

func (s *Store) decompressHeights(blob []byte, want int) ([]float32, error) {
	raw, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress heights: %w", err)
	}
	if len(raw) != 4*want {
		return nil, fmt.Errorf("heights blob holds %d bytes, want %d", len(raw), 4*want)
	}
	heights := make([]float32, want)
	for i := range heights {
		heights[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return heights, nil
}
