// Package session runs the interactive read-query-print loop.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuitCommand ends the session. Matched case-insensitively.
const QuitCommand = "quit"

const maxLineSize = 1 << 20

// Processor answers one query. On error the returned text is whatever
// output was produced before the failure.
type Processor interface {
	ProcessQuery(ctx context.Context, query string) (string, error)
}

type Loop struct {
	engine Processor
	closer io.Closer
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New builds a loop. closer is released exactly once when the loop ends.
func New(engine Processor, closer io.Closer, in io.Reader, out, errOut io.Writer, logger zerolog.Logger) *Loop {
	return &Loop{
		engine: engine,
		closer: closer,
		in:     in,
		out:    out,
		errOut: errOut,
		logger: logger,
	}
}

// Run reads queries until "quit", end of input or ctx is cancelled. Query
// failures are printed and the loop keeps going. The closer is released
// before Run returns; only a read failure is returned as an error.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()

	fmt.Fprintln(l.out, "\nMCP Client Started!")
	fmt.Fprintf(l.out, "Type your queries or '%s' to exit.\n", QuitCommand)

	lines, readErr := l.readLines(ctx)
	for {
		fmt.Fprint(l.out, "\nQuery: ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out)
			l.logger.Info().Msg("session interrupted")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(l.out)
			if err := <-readErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		line = strings.TrimRight(line, "\r")
		if strings.EqualFold(line, QuitCommand) {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		l.handle(ctx, line)
	}
}

func (l *Loop) handle(ctx context.Context, query string) {
	qlog := l.logger.With().Str("query_id", uuid.NewString()).Logger()
	qlog.Debug().Int("len", len(query)).Msg("query received")

	reply, err := l.process(qlog.WithContext(ctx), query)
	if reply != "" {
		fmt.Fprintf(l.out, "\n%s\n", reply)
	}
	if err != nil {
		qlog.Warn().Err(err).Msg("query failed")
		fmt.Fprintf(l.errOut, "Error: %v\n", err)
	}
}

// process keeps a panic inside one query from ending the session.
func (l *Loop) process(ctx context.Context, query string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return l.engine.ProcessQuery(ctx, query)
}

// readLines feeds stdin lines to the loop from a goroutine so that a
// cancelled context can interrupt a pending read.
func (l *Loop) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(l.in)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// Close releases the tool channel. Later calls return the first result.
func (l *Loop) Close() error {
	l.closeOnce.Do(func() {
		if l.closer == nil {
			return
		}
		l.closeErr = l.closer.Close()
		if l.closeErr != nil {
			l.logger.Warn().Err(l.closeErr).Msg("closing tool channel")
		}
	})
	return l.closeErr
}
