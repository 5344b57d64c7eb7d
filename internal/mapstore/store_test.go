package mapstore

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"moorfell/server/internal/nav"
	"moorfell/server/internal/terrain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	hm := terrain.Flat(8, 4, 1.5, 0)
	hm.Heights[5] = 2.25
	hm.Heights[17] = -0.5
	objects := []nav.PlacedObject{
		{Type: "tree_oak", Position: mgl32.Vec3{1, 0, 2}, Scale: mgl32.Vec3{2, 3, 2}},
		{Type: "boulder_big", Position: mgl32.Vec3{-3, 0, 4}, Scale: mgl32.Vec3{4, 2, 4}},
	}

	if err := store.SaveMap(ctx, "moor", hm, objects); err != nil {
		t.Fatalf("save: %v", err)
	}

	gotHM, gotObjects, err := store.LoadMap(ctx, "moor")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotHM.Width != hm.Width || gotHM.Height != hm.Height || gotHM.CellSize != hm.CellSize {
		t.Fatalf("dims changed: %+v", gotHM)
	}
	if !reflect.DeepEqual(gotHM.Heights, hm.Heights) {
		t.Fatal("heights did not survive the round trip bit-exact")
	}
	if !reflect.DeepEqual(gotObjects, objects) {
		t.Fatalf("objects changed: %+v", gotObjects)
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveMap(ctx, "moor", terrain.Flat(4, 4, 1, 0), nil); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveMap(ctx, "moor", terrain.Flat(6, 6, 2, 1), nil); err != nil {
		t.Fatalf("second save: %v", err)
	}

	hm, _, err := store.LoadMap(ctx, "moor")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if hm.Width != 6 || hm.CellSize != 2 {
		t.Fatalf("expected the second revision, got %+v", hm)
	}

	names, err := store.ListMaps(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 || names[0] != "moor" {
		t.Fatalf("expected one map, got %v", names)
	}
}

func TestLoadUnknownMap(t *testing.T) {
	store := openTestStore(t)
	if _, _, err := store.LoadMap(context.Background(), "nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRejectsMalformedHeightmap(t *testing.T) {
	store := openTestStore(t)
	hm := terrain.Flat(4, 4, 1, 0)
	hm.Heights = hm.Heights[:10]
	if err := store.SaveMap(context.Background(), "bad", hm, nil); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestLoadRejectsTamperedObjects(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveMap(ctx, "moor", terrain.Flat(4, 4, 1, 0), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Hand-edit the stored document into something the schema rejects.
	if _, err := store.db.ExecContext(ctx,
		`UPDATE maps SET objects_json = '[{"type": 7}]' WHERE name = 'moor'`); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	if _, _, err := store.LoadMap(ctx, "moor"); err == nil {
		t.Fatal("schema validation must reject the tampered document")
	}
}

func TestDeleteMap(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveMap(ctx, "moor", terrain.Flat(4, 4, 1, 0), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteMap(ctx, "moor"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.LoadMap(ctx, "moor"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteMap(ctx, "moor"); err != nil {
		t.Fatalf("deleting an absent map must be a no-op: %v", err)
	}
}
