package repository

import (
	"testing"
)

func TestBuildLikeConditionByDialect(t *testing.T) {
	cases := []struct {
		dialect string
		want    string
	}{
		{dialect: "sqlite", want: `LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`},
		{dialect: "postgres", want: "name ILIKE ? OR description ILIKE ?"},
	}
	for _, tc := range cases {
		got, argCount := buildLikeConditionByDialect(tc.dialect, []string{"name", " ", "description"})
		if got != tc.want || argCount != 2 {
			t.Fatalf("%s condition mismatch, want %s got %s (%d)", tc.dialect, tc.want, got, argCount)
		}
	}
}

func TestBuildLikeConditionNilDBDefaultsToSQLite(t *testing.T) {
	got, _ := buildLikeCondition(nil, []string{"name"})
	if got != `LOWER(name) LIKE ? ESCAPE '\'` {
		t.Fatalf("unexpected condition: %s", got)
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	if got := likePattern(" 50%_Off "); got != `%50\%\_off%` {
		t.Fatalf("unexpected pattern: %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
