package dispatch

import (
	"context"
	"time"
)

// AwaitInput espera a próxima linha em lines.
//
// Retorna ErrInputTimeout quando o prazo vence, ErrInputClosed quando o canal
// fecha e ctx.Err() quando o contexto é cancelado. timeout <= 0 espera só o ctx.
func AwaitInput(ctx context.Context, lines <-chan string, timeout time.Duration) (string, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	select {
	case line, ok := <-lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	case <-deadline:
		return "", ErrInputTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
