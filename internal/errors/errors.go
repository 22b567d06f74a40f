package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/logger"
	"github.com/julianstephens/streakfit/internal/stats"
)

const (
	ExitFailure = 1
	// ExitInvalidInput signals a bad date, range or catalog entry supplied by the user.
	ExitInvalidInput = 2
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// IsInvalidInput reports whether err was caused by user-supplied input
// rather than by storage or the environment.
func IsInvalidInput(err error) bool {
	return stderrors.Is(err, calendar.ErrInvalidDate) ||
		stderrors.Is(err, calendar.ErrInvalidWeekday) ||
		stderrors.Is(err, stats.ErrInvalidRange) ||
		stderrors.Is(err, achievement.ErrUnknownMetric)
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsInvalidInput(err):
		return ExitInvalidInput
	default:
		return ExitFailure
	}
}

// Fatal logs an error and exits with ExitCode(err). It does nothing for a nil error.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
