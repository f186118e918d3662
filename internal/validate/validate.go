package validate

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tordrt/fdgraph/internal/fd"
)

// DefaultMaxLength is the longest attribute name accepted by default
const DefaultMaxLength = 5

// Field names used in problem reports
const (
	FieldDeterminant = "determinant"
	FieldDependent   = "dependent"
)

var (
	ErrEmptyField                  = errors.New("field must contain at least one attribute")
	ErrUnparsableList              = errors.New("field contains no attributes after splitting on commas")
	ErrAttributeContainsWhitespace = errors.New("attribute must not contain whitespace")
	ErrAttributeTooLong            = errors.New("attribute is too long")
	ErrDuplicateAttributeInField   = errors.New("attribute is listed more than once")
	ErrTrivialDependency           = errors.New("dependent attributes must not appear in the determinant")
	ErrDuplicateDependency         = errors.New("functional dependency already exists")
)

// Problem is a single rule violation
type Problem struct {
	Field     string // empty for cross-field problems
	Attribute string // empty when the problem concerns the whole field
	Err       error
}

func (p *Problem) Error() string {
	var b strings.Builder
	if p.Field != "" {
		b.WriteString(p.Field)
		b.WriteString(": ")
	}
	if p.Attribute != "" {
		fmt.Fprintf(&b, "%q: ", p.Attribute)
	}
	b.WriteString(p.Err.Error())
	return b.String()
}

func (p *Problem) Unwrap() error {
	return p.Err
}

// Error collects every problem found while validating one FD
type Error struct {
	Problems []*Problem
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any of the collected sentinels
func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Problems))
	for i, p := range e.Problems {
		errs[i] = p
	}
	return errs
}

// Validator checks raw determinant/dependent text
type Validator struct {
	MaxLength int
}

// New creates a validator. A non-positive maxLength selects DefaultMaxLength.
func New(maxLength int) *Validator {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Validator{MaxLength: maxLength}
}

// ParseList splits on commas, trims each token and drops empty ones
func ParseList(text string) []string {
	var attrs []string
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			attrs = append(attrs, tok)
		}
	}
	return attrs
}

// ParseField parses one field and returns its attributes together with
// every field-level problem.
func (v *Validator) ParseField(field, text string) ([]string, []*Problem) {
	if strings.TrimSpace(text) == "" {
		return nil, []*Problem{{Field: field, Err: ErrEmptyField}}
	}

	attrs := ParseList(text)
	if len(attrs) == 0 {
		return nil, []*Problem{{Field: field, Err: ErrUnparsableList}}
	}

	var problems []*Problem
	for _, a := range attrs {
		if strings.IndexFunc(a, unicode.IsSpace) >= 0 {
			problems = append(problems, &Problem{Field: field, Attribute: a, Err: ErrAttributeContainsWhitespace})
		}
		if utf8.RuneCountInString(a) > v.MaxLength {
			problems = append(problems, &Problem{
				Field:     field,
				Attribute: a,
				Err:       fmt.Errorf("%w (max %d characters)", ErrAttributeTooLong, v.MaxLength),
			})
		}
	}

	counts := make(map[string]int, len(attrs))
	for _, a := range attrs {
		counts[a]++
		if counts[a] == 2 {
			problems = append(problems, &Problem{Field: field, Attribute: a, Err: ErrDuplicateAttributeInField})
		}
	}

	return attrs, problems
}

// Validate checks both fields and, when they are individually valid, the
// cross-field rules against the existing dependencies. It returns the
// parsed FD (without identity) or a *Error listing every problem.
func (v *Validator) Validate(determinant, dependent string, existing iter.Seq[fd.FD]) (fd.FD, error) {
	det, detProblems := v.ParseField(FieldDeterminant, determinant)
	dep, depProblems := v.ParseField(FieldDependent, dependent)

	problems := append(detProblems, depProblems...)
	if len(problems) > 0 {
		return fd.FD{}, &Error{Problems: problems}
	}

	candidate := fd.FD{Determinant: det, Dependent: dep}

	inDet := make(map[string]bool, len(det))
	for _, a := range det {
		inDet[a] = true
	}
	for _, a := range dep {
		if inDet[a] {
			problems = append(problems, &Problem{Attribute: a, Err: ErrTrivialDependency})
		}
	}

	if existing != nil {
		for other := range existing {
			if fd.Equivalent(candidate, other) {
				problems = append(problems, &Problem{Err: fmt.Errorf("%w: %s", ErrDuplicateDependency, other)})
				break
			}
		}
	}

	if len(problems) > 0 {
		return fd.FD{}, &Error{Problems: problems}
	}
	return candidate, nil
}
