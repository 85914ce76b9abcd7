package logger

import (
	"fmt"
	"log/slog"

	"github.com/pterm/pterm"

	"github.com/parelius/plinth/theme"
)

// StyledLogger wraps slog.Logger with Theme-aware formatting
type StyledLogger struct {
	logger *slog.Logger
	Theme  *theme.Theme
}

func NewStyledLogger(logger *slog.Logger, theme *theme.Theme) *StyledLogger {
	return &StyledLogger{
		logger: logger,
		Theme:  theme,
	}
}

func (sl *StyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *StyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *StyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *StyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

// InfoWithPrefix highlights a mount prefix inside the message
func (sl *StyledLogger) InfoWithPrefix(msg string, prefix string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Prefix.Sprint(prefix))
	sl.logger.Info(styledMsg, args...)
}

// InfoWithUpstream highlights the upstream endpoint inside the message
func (sl *StyledLogger) InfoWithUpstream(msg string, upstream string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Upstream.Sprint(upstream))
	sl.logger.Info(styledMsg, args...)
}

func (sl *StyledLogger) InfoWithCount(msg string, count int, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, pterm.Style{sl.Theme.Counts}.Sprint("(", count, ")"))
	sl.logger.Info(styledMsg, args...)
}

// With returns a StyledLogger carrying additional attributes
func (sl *StyledLogger) With(args ...any) *StyledLogger {
	return &StyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}

// Underlying exposes the wrapped slog.Logger
func (sl *StyledLogger) Underlying() *slog.Logger {
	return sl.logger
}
