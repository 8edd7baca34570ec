// Package cache guarda valores JSON com TTL: rascunhos de formulário,
// sessões de edição de serviços, travas de envio e o cache do geocoder.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache miss")

type Store interface {
	// Get decodifica o valor em dst. Chave ausente ou expirada devolve ErrMiss.
	Get(ctx context.Context, key string, dst any) error
	// Put grava v; ttl <= 0 não expira.
	Put(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Acquire cria a chave só se ela não existir. ok=false se já existe.
	Acquire(ctx context.Context, key string, ttl time.Duration) (ok bool, err error)
}

// Purger é o Store que precisa de limpeza ativa. O Redis expira sozinho.
type Purger interface {
	Purge() int
}
