package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestDumpCapturesChainAndCode(t *testing.T) {
	err := fmt.Errorf("persist cart: %w", Wrap(CodeDependency, fmt.Errorf("dial tcp"), "write browser state"))
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %q", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if _, ok := dump.Fields()["store"]; ok {
		t.Fatalf("store fields should be omitted for non-storage errors")
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "browser_state_pkey", TableName: "browser_state", Message: "duplicate key"}
	dump := Dump(Wrap(CodeConflict, pgErr, "upsert"))
	if dump.Store != "postgres" || dump.SQLState != "23505" || dump.Constraint != "browser_state_pkey" || dump.Table != "browser_state" {
		t.Fatalf("unexpected pgx dump %+v", dump)
	}

	pqErr := &pq.Error{Code: "23503", Table: "browser_state", Message: "fk"}
	dump = Dump(Wrap(CodeConflict, pqErr, "upsert"))
	if dump.SQLState != "23503" || dump.Table != "browser_state" {
		t.Fatalf("unexpected pq dump %+v", dump)
	}
	if dump.Fields()["store_table"] != "browser_state" {
		t.Fatalf("expected table in log fields, got %v", dump.Fields())
	}
}

func TestDumpExtractsSQLiteDetails(t *testing.T) {
	liteErr := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}
	dump := Dump(fmt.Errorf("save browser state: %w", liteErr))
	if dump.Store != "sqlite" || dump.SQLState != fmt.Sprintf("%d", int(sqlite3.ErrConstraintPrimaryKey)) {
		t.Fatalf("unexpected sqlite dump %+v", dump)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
