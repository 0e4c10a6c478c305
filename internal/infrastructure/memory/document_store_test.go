package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/memory"
)

func TestDocumentStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()

	id, err := s.Add(ctx, repository.CollectionEvents, repository.Fields{"title": "Feria", "capacity": 10})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, repository.CollectionEvents, id)
	require.NoError(t, err)
	assert.Equal(t, "Feria", doc.String("title"))
	assert.Equal(t, float64(10), doc.Get("capacity"), "los números se normalizan como en JSONB")

	require.NoError(t, s.Update(ctx, repository.CollectionEvents, id, repository.Fields{"capacity": 20}))
	doc, err = s.Get(ctx, repository.CollectionEvents, id)
	require.NoError(t, err)
	assert.Equal(t, "Feria", doc.String("title"), "Update fusiona sin borrar campos")
	assert.Equal(t, float64(20), doc.Get("capacity"))

	require.NoError(t, s.Set(ctx, repository.CollectionEvents, id, repository.Fields{"title": "Otra"}))
	doc, err = s.Get(ctx, repository.CollectionEvents, id)
	require.NoError(t, err)
	assert.Nil(t, doc.Get("capacity"), "Set reemplaza el documento completo")

	require.NoError(t, s.Delete(ctx, repository.CollectionEvents, id))
	_, err = s.Get(ctx, repository.CollectionEvents, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()

	assert.ErrorIs(t, s.Update(ctx, "x", "nope", repository.Fields{"a": 1}), domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "x", "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, s.Set(ctx, "x", "", repository.Fields{}), domain.ErrInvalidInput)
}

func TestDocumentStore_FechasComoRFC3339(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Set(ctx, "c", "1", repository.Fields{"at": at}))
	doc, err := s.Get(ctx, "c", "1")
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01T10:00:00Z", doc.Get("at"))
}

func TestDocumentStore_LecturaEsCopia(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()
	require.NoError(t, s.Set(ctx, "c", "1", repository.Fields{"tags": []string{"a"}}))

	doc, err := s.Get(ctx, "c", "1")
	require.NoError(t, err)
	doc.Fields["tags"] = "mutado"

	again, err := s.Get(ctx, "c", "1")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a"}, again.Get("tags"))
}

func TestDocumentStore_QueryFiltros(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()
	require.NoError(t, s.Set(ctx, "req", "b", repository.Fields{"userId": "U1", "status": "pending"}))
	require.NoError(t, s.Set(ctx, "req", "a", repository.Fields{"userId": "U1", "status": "approved"}))
	require.NoError(t, s.Set(ctx, "req", "c", repository.Fields{"userId": "U2", "status": "pending"}))

	all, err := s.Query(ctx, "req")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID, "orden estable por id")

	pending, err := s.Query(ctx, "req", repository.Where("status", "pending"), repository.Where("userId", "U1"))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	none, err := s.Query(ctx, "vacia")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.Query(ctx, "req", repository.Filter{Field: "status", Op: ">", Value: 1})
	assert.Error(t, err)
}

func TestDocumentStore_QueryNumeros(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()
	require.NoError(t, s.Set(ctx, "n", "1", repository.Fields{"attendees": 2}))

	docs, err := s.Query(ctx, "n", repository.Where("attendees", int64(2)))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()

	require.NoError(t, s.Upsert(ctx, repository.CollectionCameraAccess, "U1", repository.Fields{
		"userId":  "U1",
		"cameras": map[string]interface{}{"C1": map[string]interface{}{"accessLevel": "view"}},
	}))
	require.NoError(t, s.Upsert(ctx, repository.CollectionCameraAccess, "U1", repository.Fields{
		"cameras": map[string]interface{}{"C2": map[string]interface{}{"accessLevel": "view"}},
	}))

	doc, err := s.Get(ctx, repository.CollectionCameraAccess, "U1")
	require.NoError(t, err)
	cameras := doc.Get("cameras").(map[string]interface{})
	assert.Len(t, cameras, 2)
	assert.Equal(t, "U1", doc.String("userId"))
}

func TestDocumentStore_RunInTxRollback(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()
	require.NoError(t, s.Set(ctx, "c", "1", repository.Fields{"status": "pending"}))

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(tx repository.DocumentStore) error {
		if err := tx.Update(ctx, "c", "1", repository.Fields{"status": "approved"}); err != nil {
			return err
		}
		if _, err := tx.Add(ctx, "c", repository.Fields{"x": 1}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	doc, err := s.Get(ctx, "c", "1")
	require.NoError(t, err)
	assert.Equal(t, "pending", doc.String("status"))
	docs, err := s.Query(ctx, "c")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentStore_RunInTxCommit(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()

	err := s.RunInTx(ctx, func(tx repository.DocumentStore) error {
		return tx.Set(ctx, "c", "1", repository.Fields{"ok": true})
	})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "c", "1")
	require.NoError(t, err)
	assert.Equal(t, true, doc.Get("ok"))
}

// Dos transacciones de comprobar-y-escribir sobre el mismo documento: solo una gana.
func TestDocumentStore_RunInTxSerializa(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDocumentStore()
	require.NoError(t, s.Set(ctx, "c", "1", repository.Fields{"status": "pending"}))

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.RunInTx(ctx, func(tx repository.DocumentStore) error {
				doc, err := tx.Get(ctx, "c", "1")
				if err != nil {
					return err
				}
				if doc.String("status") != "pending" {
					return domain.ErrAlreadyProcessed
				}
				return tx.Update(ctx, "c", "1", repository.Fields{"status": "approved"})
			})
		}()
	}
	wg.Wait()
	close(results)

	ok, conflicts := 0, 0
	for err := range results {
		if err == nil {
			ok++
		} else if errors.Is(err, domain.ErrAlreadyProcessed) {
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
}
