// Package logging configura o slog (JSON) do processo e faz a ponte do
// pacote log da stdlib. Opcionalmente grava em arquivo com rotação.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Service     string
	Environment string
	Level       string // debug, info, warn, error

	// File vazio = só stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Setup instala o logger padrão e retorna o closer do arquivo (no-op sem arquivo).
func Setup(opts Options) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if f := strings.TrimSpace(opts.File); f != "" {
		rot := &lumberjack.Logger{
			Filename:   f,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rot)
		closer = rot
	}

	logger := New(out, opts)
	slog.SetDefault(logger)

	bridge := slog.NewLogLogger(logger.Handler(), slog.LevelInfo)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return logger, closer
}

// New cria um logger JSON em w sem mexer no logger padrão.
func New(w io.Writer, opts Options) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			case slog.LevelKey:
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			case slog.MessageKey:
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	args := []any{slog.String("service", strings.TrimSpace(opts.Service))}
	if env := strings.TrimSpace(opts.Environment); env != "" {
		args = append(args, slog.String("env", env))
	}
	return slog.New(handler).With(args...)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
