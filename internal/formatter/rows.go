package formatter

import (
	"github.com/google/uuid"

	"github.com/tordrt/fdgraph/internal/fd"
)

// EmptyTableMessage replaces the table when there are no dependencies
const EmptyTableMessage = "No functional dependencies recorded."

// Row is one displayed table row. Handle is what a user types to delete it.
type Row struct {
	Number      int
	ID          uuid.UUID
	Handle      string
	Determinant string
	Dependent   string
}

// Rows builds table rows, most recently added first
func Rows(fds []fd.FD) []Row {
	rows := make([]Row, 0, len(fds))
	for i := len(fds) - 1; i >= 0; i-- {
		f := fds[i]
		rows = append(rows, Row{
			Number:      len(rows) + 1,
			ID:          f.ID,
			Handle:      f.ShortID(),
			Determinant: fd.Join(f.Determinant),
			Dependent:   fd.Join(f.Dependent),
		})
	}
	return rows
}
