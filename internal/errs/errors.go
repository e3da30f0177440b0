// Package errs defines the error kinds shared by the client. Startup kinds are
// fatal to the process; per-query kinds abort only the current query.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig: required configuration absent or invalid.
	KindConfig
	// KindUnsupportedToolServer: the tool server script has no recognized extension.
	KindUnsupportedToolServer
	// KindDiscovery: the tool channel failed to establish or listed malformed tools.
	KindDiscovery
	// KindToolInvocation: a tool call failed or the channel dropped mid-session.
	KindToolInvocation
	// KindModelService: the model backend call failed.
	KindModelService
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindUnsupportedToolServer:
		return "unsupported tool server"
	case KindDiscovery:
		return "discovery error"
	case KindToolInvocation:
		return "tool invocation error"
	case KindModelService:
		return "model service error"
	default:
		return "error"
	}
}

// Fatal reports whether errors of this kind must terminate the process.
func (k Kind) Fatal() bool {
	switch k {
	case KindConfig, KindUnsupportedToolServer, KindDiscovery:
		return true
	default:
		return false
	}
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

func Config(format string, args ...any) error {
	return &Error{Kind: KindConfig, Err: fmt.Errorf(format, args...)}
}

func UnsupportedToolServer(path string) error {
	return &Error{Kind: KindUnsupportedToolServer, Op: path, Err: errors.New("server script must be a .js, .py or .go file")}
}

func Discovery(op string, err error) error {
	return &Error{Kind: KindDiscovery, Op: op, Err: err}
}

func ToolInvocation(op string, err error) error {
	return &Error{Kind: KindToolInvocation, Op: op, Err: err}
}

func ModelService(op string, err error) error {
	return &Error{Kind: KindModelService, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsFatal reports whether err must terminate the process. Unclassified
// errors are treated as recoverable.
func IsFatal(err error) bool {
	return KindOf(err).Fatal()
}
