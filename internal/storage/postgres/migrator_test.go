package postgres

import (
	"strings"
	"testing"
	"testing/fstest"
)

func testMigrationsFS() fstest.MapFS {
	return fstest.MapFS{
		"sql/migrations/0001_init.up.sql":   {Data: []byte("CREATE TABLE test_a (id INT);")},
		"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_a;")},
		"sql/migrations/0002_more.up.sql":   {Data: []byte("CREATE TABLE test_b (id INT);")},
		"sql/migrations/0002_more.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_b;")},
		"sql/migrations/0003_last.up.sql":   {Data: []byte("CREATE TABLE test_c (id INT);")},
		"sql/migrations/0003_last.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_c;")},
	}
}

func TestLoadMigrationsFromFS_Success(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(testMigrationsFS())
	if err != nil {
		t.Fatalf("loadMigrationsFromFS failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	if migrations[0].Version != 1 || migrations[0].Name != "init" {
		t.Fatalf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[2].label() != "0003_last" {
		t.Fatalf("unexpected label: %s", migrations[2].label())
	}
}

func TestLoadMigrationsFromFS_Embedded(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(migrationsFS)
	if err != nil {
		t.Fatalf("embedded migrations must load: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 embedded migrations, got %d", len(migrations))
	}
	if !strings.Contains(migrations[0].UpSQL, "order_items") {
		t.Fatalf("first migration must create order_items")
	}
	if !strings.Contains(migrations[1].UpSQL, "outbox_messages") {
		t.Fatalf("second migration must create outbox_messages")
	}
}

func TestLoadMigrationsFromFS_MissingDown(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_init.up.sql": {Data: []byte("CREATE TABLE test_a (id INT);")},
	}

	_, err := loadMigrationsFromFS(fsys)
	if err == nil {
		t.Fatal("expected error for missing down migration")
	}
	if !strings.Contains(err.Error(), "both up and down") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMigrationsFromFS_InvalidFilename(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/not_a_migration.sql": {Data: []byte("SELECT 1;")},
	}

	if _, err := loadMigrationsFromFS(fsys); err == nil {
		t.Fatal("expected error for invalid migration file name")
	}
}

func TestLoadMigrationsFromFS_EmptyFile(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_init.up.sql":   {Data: []byte("   \n")},
		"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS test;")},
	}

	if _, err := loadMigrationsFromFS(fsys); err == nil {
		t.Fatal("expected error for empty migration file body")
	}
}

func TestLoadMigrationsFromFS_NameMismatch(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_init.up.sql":    {Data: []byte("SELECT 1;")},
		"sql/migrations/0001_other.down.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := loadMigrationsFromFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "name mismatch") {
		t.Fatalf("expected name mismatch error, got %v", err)
	}
}

func TestPlanMigrations(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(testMigrationsFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cases := []struct {
		name      string
		applied   map[int64]bool
		direction migrationDirection
		steps     int
		want      []int64
	}{
		{name: "up all", applied: map[int64]bool{}, direction: migrationUp, steps: 0, want: []int64{1, 2, 3}},
		{name: "up one", applied: map[int64]bool{1: true}, direction: migrationUp, steps: 1, want: []int64{2}},
		{name: "up nothing", applied: map[int64]bool{1: true, 2: true, 3: true}, direction: migrationUp, steps: 0, want: nil},
		{name: "down one", applied: map[int64]bool{1: true, 2: true}, direction: migrationDown, steps: 1, want: []int64{2}},
		{name: "down all", applied: map[int64]bool{1: true, 2: true, 3: true}, direction: migrationDown, steps: 10, want: []int64{3, 2, 1}},
		{name: "down empty", applied: map[int64]bool{}, direction: migrationDown, steps: 1, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := planMigrations(migrations, tc.applied, tc.direction, tc.steps)
			if err != nil {
				t.Fatalf("plan: %v", err)
			}
			if len(plan) != len(tc.want) {
				t.Fatalf("expected %d steps, got %d", len(tc.want), len(plan))
			}
			for i, version := range tc.want {
				if plan[i].Version != version {
					t.Fatalf("step %d: expected version %d, got %d", i, version, plan[i].Version)
				}
			}
		})
	}
}

func TestPlanMigrations_Errors(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(testMigrationsFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := planMigrations(migrations, map[int64]bool{9: true}, migrationDown, 1); err == nil {
		t.Fatal("expected error for unknown applied version")
	}
	if _, err := planMigrations(migrations, nil, migrationDirection("sideways"), 1); err == nil {
		t.Fatal("expected error for unsupported direction")
	}
}

func TestBuildMigrationState(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(testMigrationsFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	state := buildMigrationState(migrations, map[int64]bool{1: true, 2: true})
	if state.Version != 2 || state.Applied != 2 {
		t.Fatalf("unexpected state: %+v", state)
	}
	if len(state.Pending) != 1 || state.Pending[0] != "0003_last" {
		t.Fatalf("unexpected pending: %v", state.Pending)
	}

	empty := buildMigrationState(migrations, map[int64]bool{})
	if empty.Version != 0 || len(empty.Pending) != 3 {
		t.Fatalf("unexpected empty state: %+v", empty)
	}
}
