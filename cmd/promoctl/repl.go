package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"promo-gateway/core/promo/dispatch"
	"promo-gateway/core/promo/domain"
	"promo-gateway/internal/app"
	"promo-gateway/internal/config"
	"promo-gateway/internal/logging"

	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run the promo command table interactively",
	Long:  "Reads chat-style commands (!menu, !barcode, !newcategory, !guide, !promos, !<category>) from stdin. The session ends after --timeout without input.",
	Args:  cobra.NoArgs,
	RunE:  runReplCmd,
}

var (
	replCaller  string
	replOutDir  string
	replTimeout time.Duration
)

func init() {
	replCmd.Flags().StringVar(&replCaller, "caller", os.Getenv("USER"), "Caller key used for throttling and stats")
	replCmd.Flags().StringVar(&replOutDir, "out-dir", ".", "Directory for generated barcode PNGs")
	replCmd.Flags().DurationVar(&replTimeout, "timeout", 0, "Idle timeout (default INPUT_TIMEOUT)")

	rootCmd.AddCommand(replCmd)
}

func runReplCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), logging.Options{Service: "promoctl", Level: cfg.LogLevel})

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	timeout := cfg.InputTimeout
	if replTimeout > 0 {
		timeout = replTimeout
	}
	return runRepl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), replSession{
		Dispatcher: a.Dispatcher,
		Caller:     domain.Key(replCaller),
		OutDir:     replOutDir,
		Timeout:    timeout,
	})
}

type replSession struct {
	Dispatcher *dispatch.Dispatcher
	Caller     domain.Key
	OutDir     string
	Timeout    time.Duration
}

func runRepl(ctx context.Context, in io.Reader, out io.Writer, s replSession) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// A goroutine de leitura só termina quando in devolve EOF ou erro: um Read
	// bloqueado não obedece ao ctx. No CLI isso é o stdin e morre com o processo;
	// quem passar outro reader deve fechá-lo depois que runRepl retornar.
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	images := 0
	for {
		fmt.Fprint(out, "> ")
		line, err := dispatch.AwaitInput(ctx, lines, s.Timeout)
		switch {
		case errors.Is(err, dispatch.ErrInputTimeout):
			fmt.Fprintln(out, "\n⏰ Timed out. Please try again.")
			return nil
		case errors.Is(err, dispatch.ErrInputClosed):
			fmt.Fprintln(out)
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		res, err := s.Dispatcher.Dispatch(ctx, s.Caller, line)
		if err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n", err)
			continue
		}
		if res.Text != "" {
			fmt.Fprintln(out, res.Text)
		}
		if len(res.Image) > 0 {
			images++
			path := filepath.Join(s.OutDir, fmt.Sprintf("%03d-%s", images, res.ImageName))
			if err := os.WriteFile(path, res.Image, 0o644); err != nil {
				fmt.Fprintf(out, "❌ Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "%s -> %s\n", res.Payload, path)
		}
	}
}
