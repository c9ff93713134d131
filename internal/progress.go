package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// ProgressStep represents a single step in a multi-step process
type ProgressStep struct {
	Message string
	Fn      func() error
}

// ShowProgress runs fn behind a spinner on a terminal, or logs the message
// and runs it directly otherwise
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		LogInfo(message)
		return fn()
	}
	return showProgressSpinner(ctx, os.Stderr, message, fn)
}

// ShowProgressResult is ShowProgress for a function that produces a value.
// The value is handed back over a channel, so a cancelled run never shares
// memory with the still running fn.
func ShowProgressResult[T any](ctx context.Context, message string, fn func() (T, error)) (T, error) {
	return progressResult(ctx, message, fn, ShowProgress)
}

func progressResult[T any](ctx context.Context, message string, fn func() (T, error),
	run func(context.Context, string, func() error) error) (T, error) {
	results := make(chan T, 1)
	err := run(ctx, message, func() error {
		v, err := fn()
		results <- v
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return <-results, nil
}

// ShowProgressWithSteps runs steps in order, stopping at the first failure
func ShowProgressWithSteps(ctx context.Context, steps []ProgressStep) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Message)
		if err := ShowProgress(ctx, msg, step.Fn); err != nil {
			return fmt.Errorf("%s: %w", step.Message, err)
		}
	}
	return nil
}

func showProgressSpinner(ctx context.Context, w io.Writer, message string, fn func() error) error {
	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_, _ = fmt.Fprintf(w, "\r%s %s", progressStyle.Render(spinnerChars[i%len(spinnerChars)]), message)
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	close(stop)
	<-spinnerDone

	if err != nil {
		_, _ = fmt.Fprintf(w, "\r%s %s\n", errorStyle.Render("✗"), message)
		return err
	}
	_, _ = fmt.Fprintf(w, "\r%s %s\n", successStyle.Render("✓"), message)
	return nil
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	if isTerminal(w) {
		_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), message)
	} else {
		_, _ = fmt.Fprintln(w, message)
	}
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	if isTerminal(w) {
		_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		_, _ = fmt.Fprintf(w, "ERROR: %s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, message string) {
	if isTerminal(w) {
		_, _ = fmt.Fprintf(w, "%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		_, _ = fmt.Fprintln(w, message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	if isTerminal(w) {
		_, _ = fmt.Fprintf(w, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		_, _ = fmt.Fprintf(w, "WARNING: %s\n", message)
	}
}
