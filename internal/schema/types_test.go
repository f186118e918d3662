package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeyDependencies(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  []KeyDependency
	}{
		{
			name: "primary key only",
			table: Table{
				Name:       "users",
				Columns:    []string{"id", "name", "email"},
				PrimaryKey: []string{"id"},
			},
			want: []KeyDependency{
				{Key: "PRIMARY KEY", Determinant: []string{"id"}, Dependent: []string{"name", "email"}},
			},
		},
		{
			name: "primary and unique keys",
			table: Table{
				Name:       "users",
				Columns:    []string{"id", "name", "email"},
				PrimaryKey: []string{"id"},
				UniqueKeys: []UniqueKey{{Name: "users_email_key", Columns: []string{"email"}}},
			},
			want: []KeyDependency{
				{Key: "PRIMARY KEY", Determinant: []string{"id"}, Dependent: []string{"name", "email"}},
				{Key: "users_email_key", Determinant: []string{"email"}, Dependent: []string{"id", "name"}},
			},
		},
		{
			name: "composite key",
			table: Table{
				Name:       "order_items",
				Columns:    []string{"order", "line", "qty"},
				PrimaryKey: []string{"order", "line"},
			},
			want: []KeyDependency{
				{Key: "PRIMARY KEY", Determinant: []string{"order", "line"}, Dependent: []string{"qty"}},
			},
		},
		{
			name: "all-key table implies nothing",
			table: Table{
				Name:       "tags",
				Columns:    []string{"post", "tag"},
				PrimaryKey: []string{"post", "tag"},
			},
			want: nil,
		},
		{
			name: "unique key duplicating primary key is skipped",
			table: Table{
				Name:       "t",
				Columns:    []string{"a", "b", "c"},
				PrimaryKey: []string{"a", "b"},
				UniqueKeys: []UniqueKey{{Name: "t_ba", Columns: []string{"b", "a"}}},
			},
			want: []KeyDependency{
				{Key: "PRIMARY KEY", Determinant: []string{"a", "b"}, Dependent: []string{"c"}},
			},
		},
		{
			name:  "no keys",
			table: Table{Name: "log", Columns: []string{"msg"}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.KeyDependencies()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("KeyDependencies() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
