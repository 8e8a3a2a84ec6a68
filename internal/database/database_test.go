// Package database tests cover connection and migration execution against
// a real PostgreSQL; they skip when no database is reachable.
package database

import (
	"os"
	"testing"
)

func testDSN() string {
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return "postgres://" + get("POSTGRES_USER", "clinicsite") + ":" +
		get("POSTGRES_PASSWORD", "changeme") + "@" +
		get("POSTGRES_HOST", "localhost") + ":" + get("POSTGRES_PORT", "5432") +
		"/" + get("POSTGRES_DB", "clinicsite") + "?sslmode=disable"
}

func TestConnect(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 25 {
		t.Errorf("max open conns: got %d, want 25", got)
	}
	if err := db.Ping(); err != nil {
		t.Errorf("ping after Connect: %v", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	if _, err := Connect("postgres://x:x@localhost:1/none?sslmode=disable&connect_timeout=1"); err == nil {
		t.Error("Connect to a dead port succeeded")
	}
}

func TestMigrateCreatesSchemaAndIsIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	// Twice on purpose: goose must treat applied migrations as done.
	if err := Migrate(db); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	for _, table := range []string{
		"users", "categories", "services", "staff_members",
		"social_links", "service_practitioners", "media",
	} {
		var exists bool
		err := db.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", table,
		).Scan(&exists)
		if err != nil {
			t.Errorf("check table %s: %v", table, err)
			continue
		}
		if !exists {
			t.Errorf("table %s missing after migration", table)
		}
	}
}
