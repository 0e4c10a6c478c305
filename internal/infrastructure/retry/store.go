// Package retry envuelve el almacén de documentos con reintentos acotados y
// backoff exponencial ante fallos transitorios (domain.ErrUnavailable).
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

var _ repository.DocumentStore = (*Store)(nil)

// Policy límites de reintento.
type Policy struct {
	MaxAttempts int           // intentos totales (1 = sin reintentos)
	Initial     time.Duration // primera espera
	MaxWait     time.Duration // tope de cada espera
}

// DefaultPolicy 3 intentos, 50ms..1s.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Initial: 50 * time.Millisecond, MaxWait: time.Second}
}

// Store decorador de repository.DocumentStore.
// Add no se reintenta: si el INSERT llegó a aplicarse, repetirlo duplicaría el documento.
// RunInTx reintenta la transacción completa, por lo que fn no debe tener efectos
// fuera de la transacción.
type Store struct {
	inner  repository.DocumentStore
	policy Policy
	log    *logger.Logger
}

// New construye el decorador. log puede ser nil.
func New(inner repository.DocumentStore, policy Policy, log *logger.Logger) *Store {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Initial <= 0 {
		policy.Initial = DefaultPolicy().Initial
	}
	if policy.MaxWait < policy.Initial {
		policy.MaxWait = policy.Initial
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{inner: inner, policy: policy, log: log.Named("retry")}
}

func (s *Store) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.policy.Initial
	b.MaxInterval = s.policy.MaxWait
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.policy.MaxAttempts-1)), ctx)
}

func (s *Store) do(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}, s.backOff(ctx), func(err error, wait time.Duration) {
		s.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("wait", wait).Msg("reintentando operación del almacén")
	})
}

func (s *Store) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	var doc repository.Document
	err := s.do(ctx, "get", func() error {
		var err error
		doc, err = s.inner.Get(ctx, collection, id)
		return err
	})
	return doc, err
}

func (s *Store) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	var docs []repository.Document
	err := s.do(ctx, "query", func() error {
		var err error
		docs, err = s.inner.Query(ctx, collection, filters...)
		return err
	})
	return docs, err
}

func (s *Store) Add(ctx context.Context, collection string, fields repository.Fields) (string, error) {
	return s.inner.Add(ctx, collection, fields)
}

func (s *Store) Set(ctx context.Context, collection, id string, fields repository.Fields) error {
	return s.do(ctx, "set", func() error {
		return s.inner.Set(ctx, collection, id, fields)
	})
}

func (s *Store) Update(ctx context.Context, collection, id string, patch repository.Fields) error {
	return s.do(ctx, "update", func() error {
		return s.inner.Update(ctx, collection, id, patch)
	})
}

func (s *Store) Upsert(ctx context.Context, collection, id string, patch repository.Fields) error {
	return s.do(ctx, "upsert", func() error {
		return s.inner.Upsert(ctx, collection, id, patch)
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.do(ctx, "delete", func() error {
		return s.inner.Delete(ctx, collection, id)
	})
}

// RunInTx fn recibe la tx del almacén interno, sin decorar: dentro de una
// transacción no tiene sentido reintentar sentencias sueltas.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.DocumentStore) error) error {
	return s.do(ctx, "tx", func() error {
		return s.inner.RunInTx(ctx, fn)
	})
}
