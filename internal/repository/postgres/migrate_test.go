package postgres

import (
	"strings"
	"testing"
)

// The identity middleware rejects any company id without a row, so a fresh
// database must come up with the known tenants provisioned.
func TestMigrationsSeedCompanies(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/0002_seed_companies.up.sql")
	if err != nil {
		t.Fatalf("Expected company seed migration to be embedded: %v", err)
	}

	seed := string(data)
	if !strings.Contains(seed, "INSERT INTO companies") {
		t.Fatal("Expected seed migration to insert companies")
	}

	for _, id := range []string{
		"a0650f50-bcaa-41f6-95db-e68301d4ccd5",
		"85e60189-7543-4350-b594-a0b799edc2c4",
		"123e4567-e89b-12d3-a456-426614174000",
	} {
		if !strings.Contains(seed, id) {
			t.Errorf("Expected seed migration to provision company %s", id)
		}
	}
}

func TestMigrationsComeInPairs(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("Failed to read embedded migrations: %v", err)
	}

	files := make(map[string]bool, len(entries))
	for _, entry := range entries {
		files[entry.Name()] = true
	}

	for name := range files {
		var counterpart string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			counterpart = strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		case strings.HasSuffix(name, ".down.sql"):
			counterpart = strings.TrimSuffix(name, ".down.sql") + ".up.sql"
		default:
			t.Errorf("Unexpected migration file name %s", name)
			continue
		}
		if !files[counterpart] {
			t.Errorf("Migration %s has no counterpart %s", name, counterpart)
		}
	}
}
