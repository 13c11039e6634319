package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vitoramaral10/regex-classifier/internal/mapping"
)

// RetryPolicy controla as novas tentativas de Preload.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// DefaultRetryPolicy retorna a política usada pela CLI.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		MaxElapsed:      30 * time.Second,
	}
}

// Preload carrega a tabela antes do processamento. Um arquivo indisponível é
// tentado de novo com backoff exponencial; regex inválida falha na hora.
// MaxElapsed zero desativa as novas tentativas.
func (c *Classifier) Preload(ctx context.Context, path string, policy RetryPolicy) error {
	operation := func() error {
		_, err := c.cache.GetOrLoad(path, c.load)
		if err == nil {
			return nil
		}

		var unavailable *mapping.ResourceUnavailableError
		if errors.As(err, &unavailable) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		slog.Warn("mapeamento indisponível, tentando novamente", "path", path, "wait", wait, "error", err)
	}

	var b backoff.BackOff = &backoff.StopBackOff{}
	if policy.MaxElapsed > 0 {
		expBackoff := backoff.NewExponentialBackOff()
		if policy.InitialInterval > 0 {
			expBackoff.InitialInterval = policy.InitialInterval
		}
		if policy.MaxInterval > 0 {
			expBackoff.MaxInterval = policy.MaxInterval
		}
		expBackoff.MaxElapsedTime = policy.MaxElapsed
		b = expBackoff
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("erro ao carregar mapeamento: %w", err)
	}

	slog.Debug("mapeamento carregado", "path", path)
	return nil
}
