package shopform

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/cache"
)

// PreviewSweeper apaga prévias abandonadas no disco.
type PreviewSweeper interface {
	Sweep(maxAge time.Duration) (int, error)
}

// Janitor limpa o que um rascunho vencido deixa para trás: a prévia no
// disco e, no cache em memória, as chaves que ninguém voltou a ler.
type Janitor struct {
	previews PreviewSweeper
	drafts   cache.Store
	ttl      time.Duration
}

// NewJanitor usa o mesmo ttl dos rascunhos; ttl <= 0 vira 24h.
func NewJanitor(previews PreviewSweeper, drafts cache.Store, ttl time.Duration) *Janitor {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &Janitor{previews: previews, drafts: drafts, ttl: ttl}
}

// Sweep faz uma passada e devolve quantas prévias e chaves removeu.
func (j *Janitor) Sweep() (previews, keys int) {
	n, err := j.previews.Sweep(j.ttl)
	if err != nil {
		slog.Warn("preview sweep failed", "error", err)
	}
	previews = n

	if p, ok := j.drafts.(cache.Purger); ok {
		keys = p.Purge()
	}

	if previews > 0 || keys > 0 {
		slog.Info("janitor sweep", "previews", previews, "keys", keys)
	}
	return previews, keys
}

// Run varre a cada every até ctx acabar.
func (j *Janitor) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}
