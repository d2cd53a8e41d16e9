package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/linkcheck/internal/checker"
)

// Exit codes for commands other than check. The check command exits with
// the outcome's status instead (0, 1, 17 or 42).
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Test/validation failure (scenarios failed, invalid manifest)
	ExitCommandError = 2 // Command error (invalid paths, database not found, etc.)
)

// Error codes reported in JSON output.
const (
	ErrCodeGeneric    = "E001"
	ErrCodeNotFound   = "E005"
	ErrCodeDatabase   = "E101"
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (ExitFailure, ExitCommandError or an outcome status)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool

	styles *styles
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "INCONSISTENT", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "%s %s\n", f.style().fail.Render("Error ["+code+"]:"), message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// encode writes v as indented JSON followed by a newline.
func (f *OutputFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// style returns the text styles for Writer, creating them on first use.
func (f *OutputFormatter) style() *styles {
	if f.styles == nil {
		f.styles = newStyles(f.Writer)
	}
	return f.styles
}

// styles renders text output. Colors are dropped automatically when the
// writer is not a terminal.
type styles struct {
	header lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("46")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		warn:   r.NewStyle().Foreground(lipgloss.Color("226")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// outcome styles an outcome by severity.
func (s *styles) outcome(o checker.Outcome) string {
	switch o {
	case checker.ConsistentTrue:
		return s.ok.Render(string(o))
	case checker.ConsistentFalse:
		return s.warn.Render(string(o))
	default:
		return s.fail.Render(string(o))
	}
}

// mark renders a pass/fail marker.
func (s *styles) mark(pass bool) string {
	if pass {
		return s.ok.Render("✓")
	}
	return s.fail.Render("✗")
}
