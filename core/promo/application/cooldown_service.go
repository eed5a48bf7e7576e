package application

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"promo-gateway/core/promo/domain"
)

// CooldownService aplica o cooldown de uma categoria e registra a decisão.
//
// A rejeição por cooldown não é erro: volta como Decision{Allowed: false}.
type CooldownService struct {
	Registry domain.CategoryRegistry
	Stats    domain.StatsStore
	Now      func() time.Time
}

func (s CooldownService) Trigger(ctx context.Context, caller domain.Key, name string) (domain.Decision, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	// mesma chave que o registro usa; senão " p" e "p" contam separado nas estatísticas
	name = strings.TrimSpace(name)
	ok, remaining, err := s.Registry.Trigger(name, now)
	if err != nil {
		return domain.Decision{}, err
	}

	if s.Stats != nil {
		// best-effort
		_ = s.Stats.Record(ctx, domain.StatsEvent{
			Category:  name,
			Caller:    caller,
			Allowed:   ok,
			Remaining: remaining,
			At:        now,
		})
	}

	if ok {
		return domain.Decision{Allowed: true}, nil
	}
	return domain.Decision{Allowed: false, RetryAfter: remaining}, nil
}

// maxCooldownHours evita overflow de time.Duration.
var maxCooldownHours = float64(math.MaxInt64/int64(time.Second)) / 3600

// ParseCooldownHours converte o texto em horas (aceita fração) para duração,
// truncada em segundos inteiros.
func ParseCooldownHours(text string) (time.Duration, error) {
	text = strings.TrimSpace(text)
	h, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number of hours", domain.ErrInvalidCooldown, text)
	}
	if math.IsNaN(h) || h < 0 || h > maxCooldownHours {
		return 0, fmt.Errorf("%w: %q out of range", domain.ErrInvalidCooldown, text)
	}
	secs := int64(h * 3600)
	return time.Duration(secs) * time.Second, nil
}
