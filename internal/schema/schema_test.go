package schema

import (
	"strings"
	"testing"
)

func TestSchema_isIdempotent(t *testing.T) {
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Errorf("statement is not idempotent:\n%s", stmt)
		}
	}
}

func TestSchema_measurementKey(t *testing.T) {
	if !strings.Contains(ddl, "UNIQUE (station_id, pollutant_id, date)") {
		t.Fatal("measurements lack the (station_id, pollutant_id, date) key used by upserts")
	}
}
