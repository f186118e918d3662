package schema

import "slices"

// Schema represents the tables read from a database
type Schema struct {
	Tables []Table
}

// Table represents a database table and the keys that constrain it
type Table struct {
	Name       string
	Columns    []string
	PrimaryKey []string
	UniqueKeys []UniqueKey
}

// UniqueKey is a unique constraint or unique index
type UniqueKey struct {
	Name    string
	Columns []string
}

// KeyDependency is a dependency implied by a key: the key columns determine
// every other column of the table.
type KeyDependency struct {
	Key         string // "PRIMARY KEY" or the unique key name
	Determinant []string
	Dependent   []string
}

// KeyDependencies derives one dependency per key. Keys covering every
// column imply nothing and are skipped, as are unique keys with the same
// columns as the primary key.
func (t Table) KeyDependencies() []KeyDependency {
	var deps []KeyDependency

	add := func(name string, key []string) {
		dependent := t.columnsOutside(key)
		if len(dependent) == 0 {
			return
		}
		deps = append(deps, KeyDependency{
			Key:         name,
			Determinant: slices.Clone(key),
			Dependent:   dependent,
		})
	}

	if len(t.PrimaryKey) > 0 {
		add("PRIMARY KEY", t.PrimaryKey)
	}
	for _, uk := range t.UniqueKeys {
		if len(uk.Columns) == 0 || sameColumns(uk.Columns, t.PrimaryKey) {
			continue
		}
		add(uk.Name, uk.Columns)
	}
	return deps
}

func (t Table) columnsOutside(key []string) []string {
	var out []string
	for _, c := range t.Columns {
		if !slices.Contains(key, c) {
			out = append(out, c)
		}
	}
	return out
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, c := range a {
		if !slices.Contains(b, c) {
			return false
		}
	}
	return true
}
