package store

import (
	"context"
	"sort"
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"

	"github.com/laximgqozaZZZYT/vow-sub000/ent/schema"
)

// The ent schemas document the tables; migrations are hand-written DDL.
// This keeps the two from drifting apart.
func TestMigrationsMatchEntSchema(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	schemas := []ent.Interface{
		schema.User{},
		schema.Habit{},
		schema.XPEvent{},
		schema.LevelChangeEvent{},
		schema.Notification{},
		schema.LLMRequestEvent{},
	}

	for _, sch := range schemas {
		table := tableName(sch)
		if table == "" {
			t.Fatalf("%T has no table annotation", sch)
		}

		want := map[string]bool{}
		for _, m := range sch.Mixin() {
			for _, f := range m.Fields() {
				want[f.Descriptor().Name] = true
			}
		}
		for _, f := range sch.Fields() {
			want[f.Descriptor().Name] = true
		}

		got := map[string]bool{}
		rows, err := s.DB().QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
		if err != nil {
			t.Fatalf("table_info %s: %v", table, err)
		}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				t.Fatalf("scan: %v", err)
			}
			got[name] = true
		}
		rows.Close()

		if missing := diff(want, got); len(missing) > 0 {
			t.Errorf("%s: columns missing from migrations: %v", table, missing)
		}
		// ent adds an implicit integer id when the schema declares none.
		delete(got, "id")
		delete(want, "id")
		if extra := diff(got, want); len(extra) > 0 {
			t.Errorf("%s: columns missing from ent schema: %v", table, extra)
		}
	}
}

func tableName(sch ent.Interface) string {
	for _, a := range sch.Annotations() {
		if ann, ok := a.(entsql.Annotation); ok {
			return ann.Table
		}
	}
	return ""
}

// diff returns the keys of a not present in b, sorted.
func diff(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
