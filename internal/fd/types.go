package fd

import (
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Separator joins attributes when an FD side is displayed or re-serialized
const Separator = ", "

// FD represents a functional dependency between two attribute lists
type FD struct {
	ID          uuid.UUID
	Determinant []string
	Dependent   []string
}

// IsComposite reports whether the determinant has more than one attribute
func (f FD) IsComposite() bool {
	return len(f.Determinant) > 1
}

// String renders the FD as "A, B -> C"
func (f FD) String() string {
	return Join(f.Determinant) + " -> " + Join(f.Dependent)
}

// ShortID returns the first 8 hex digits of the FD identity
func (f FD) ShortID() string {
	return f.ID.String()[:8]
}

// Equivalent reports whether two FDs have the same determinant set and the
// same dependent set. Attribute order is ignored.
func Equivalent(a, b FD) bool {
	return sameSet(a.Determinant, b.Determinant) && sameSet(a.Dependent, b.Dependent)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// Join serializes an attribute list the way it is displayed
func Join(attrs []string) string {
	return strings.Join(attrs, Separator)
}

// Universe returns every distinct attribute mentioned by fds in first-seen
// order, determinant before dependent within each FD.
func Universe(fds iter.Seq[FD]) []string {
	seen := make(map[string]bool)
	var attrs []string
	add := func(a string) {
		if !seen[a] {
			seen[a] = true
			attrs = append(attrs, a)
		}
	}
	for f := range fds {
		for _, a := range f.Determinant {
			add(a)
		}
		for _, a := range f.Dependent {
			add(a)
		}
	}
	return attrs
}
