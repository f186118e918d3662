// Package shell is the interactive front end: it reads commands, feeds the
// session, and prints validation problems without touching the session on
// failure.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tordrt/fdgraph/internal/fdfile"
	"github.com/tordrt/fdgraph/internal/formatter"
	"github.com/tordrt/fdgraph/internal/session"
	"github.com/tordrt/fdgraph/internal/validate"
)

const helpText = `Commands:
  add <determinant> -> <dependent>   record a dependency, e.g. add A, B -> C
  delete <id>                        remove the row with that id (prefix is enough)
  list                               print the table again
  resize <width> <height>            change the diagram canvas
  help                               show this help
  quit                               leave the shell
`

var errQuit = errors.New("quit")

// Shell runs the read-eval loop for one session
type Shell struct {
	log     *slog.Logger
	session *session.Session
	in      io.Reader
	out     io.Writer
	prompt  string
}

func New(log *slog.Logger, s *session.Session, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		log:     log,
		session: s,
		in:      in,
		out:     out,
		prompt:  "fd> ",
	}
}

// Run processes commands until EOF, quit, or ctx is cancelled
func (sh *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(sh.in)
	_, _ = fmt.Fprint(sh.out, sh.prompt)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sh.Exec(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			_, _ = fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		_, _ = fmt.Fprint(sh.out, sh.prompt)
	}
	return scanner.Err()
}

// Exec runs a single command line
func (sh *Shell) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "add":
		return sh.add(rest)
	case "delete", "del", "rm":
		return sh.delete(rest)
	case "list", "ls":
		return formatter.NewTextFormatter(sh.out).FormatTable(sh.session.FDs())
	case "resize":
		return sh.resize(rest)
	case "help", "?":
		_, _ = fmt.Fprint(sh.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (sh *Shell) add(args string) error {
	det, dep, ok := fdfile.SplitArrow(args)
	if !ok {
		return fmt.Errorf("usage: add <determinant> %s <dependent>", fdfile.Arrow)
	}
	added, err := sh.session.Submit(det, dep)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			_, _ = fmt.Fprintln(sh.out, "Not added:")
			for _, p := range verr.Problems {
				_, _ = fmt.Fprintf(sh.out, "  - %s\n", p.Error())
			}
			return nil
		}
		return err
	}
	sh.log.Info("dependency added", "id", added.ShortID(), "fd", added.String())
	return nil
}

func (sh *Shell) delete(args string) error {
	if args == "" {
		return errors.New("usage: delete <id>")
	}
	id, err := sh.session.Resolve(args)
	if err != nil {
		return err
	}
	if err := sh.session.Delete(id); err != nil {
		return err
	}
	sh.log.Info("dependency deleted", "id", id)
	return nil
}

func (sh *Shell) resize(args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return errors.New("usage: resize <width> <height>")
	}
	w, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("invalid width: %w", err)
	}
	h, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("invalid height: %w", err)
	}
	return sh.session.Resize(w, h)
}
