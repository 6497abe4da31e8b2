package db

import (
	"strings"
	"testing"
)

func TestSchemaDeclaresTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"customers", "customer_details", "audit_logs"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Fatalf("schema missing table %s", table)
		}
	}
	if !strings.Contains(schema, "ON DELETE CASCADE") {
		t.Fatalf("details must cascade with their customer")
	}
}
