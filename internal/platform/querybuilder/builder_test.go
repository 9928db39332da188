package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder_ToSQL(t *testing.T) {
	sql, args, err := Select("id", "name", "price").
		From("players").
		Where(Eq("club", "Wigan"), Eq("position", "Winger")).
		OrderBy("name ASC").
		Limit(50).
		Offset(100).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT id, name, price FROM players WHERE club = $1 AND position = $2 ORDER BY name ASC LIMIT 50 OFFSET 100"
	if sql != want {
		t.Fatalf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"Wigan", "Winger"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilder_InCondition(t *testing.T) {
	sql, args, err := Select("id").
		From("players").
		Where(In("id", []any{"a", "b"})).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT id FROM players WHERE id IN ($1, $2)"
	if sql != want {
		t.Fatalf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestSelectBuilder_EmptyInNeverMatches(t *testing.T) {
	sql, _, err := Select("id").From("players").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "SELECT id FROM players WHERE 1=0" {
		t.Fatalf("unexpected sql: %s", sql)
	}
}

func TestSelectBuilder_ExprRewritesPlaceholders(t *testing.T) {
	sql, args, err := Select("id").
		From("players").
		Where(Eq("club", "Leeds"), Expr("price BETWEEN ? AND ?", 10, 500)).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT id FROM players WHERE club = $1 AND price BETWEEN $2 AND $3"
	if sql != want {
		t.Fatalf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"Leeds", 10, 500}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}
