package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentStore implementación del puerto DocumentStore sobre una tabla JSONB.
// Fuera de transacción usa el pool; dentro de RunInTx usa la tx y bloquea con FOR UPDATE.
type DocumentStore struct {
	pool *pgxpool.Pool
	q    Querier
	inTx bool
}

// NewDocumentStore construye el adaptador con el pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool, q: pool}
}

// Get obtiene un documento. En transacción bloquea la fila hasta el commit.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	if s.inTx {
		query += ` FOR UPDATE`
	}
	var raw []byte
	if err := s.q.QueryRow(ctx, query, collection, id).Scan(&raw); err != nil {
		return repository.Document{}, classify("get "+collection+"/"+id, err)
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return repository.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return repository.Document{ID: id, Fields: fields}, nil
}

// Query filtra por igualdad usando contención JSONB (data @> '{"campo": valor}').
func (s *DocumentStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	containment := make(map[string]interface{}, len(filters))
	for _, f := range filters {
		if f.Op != "" && f.Op != repository.OpEqual {
			return nil, fmt.Errorf("query %s: operador %q no soportado", collection, f.Op)
		}
		containment[f.Field] = f.Value
	}
	filterJSON, err := json.Marshal(containment)
	if err != nil {
		return nil, fmt.Errorf("query %s: filtro: %w", collection, err)
	}

	rows, err := s.q.Query(ctx, `
		SELECT id, data FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY id`, collection, string(filterJSON))
	if err != nil {
		return nil, classify("query "+collection, err)
	}
	defer rows.Close()

	out := make([]repository.Document, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, classify("scan "+collection, err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("query %s/%s: %w", collection, id, err)
		}
		out = append(out, repository.Document{ID: id, Fields: fields})
	}
	return out, classify("query "+collection, rows.Err())
}

// Add inserta un documento nuevo con id generado.
func (s *DocumentStore) Add(ctx context.Context, collection string, fields repository.Fields) (string, error) {
	id := uuid.NewString()
	raw, err := encodeFields(repository.Merge(nil, fields))
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())`, collection, id, raw)
	if err != nil {
		return "", classify("add "+collection, err)
	}
	return id, nil
}

// Set crea o reemplaza el documento completo.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, fields repository.Fields) error {
	if id == "" {
		return fmt.Errorf("set %s: %w", collection, domain.ErrInvalidInput)
	}
	raw, err := encodeFields(repository.Merge(nil, fields))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, collection, id, raw)
	return classify("set "+collection+"/"+id, err)
}

// Update lee con bloqueo, fusiona en Go (repository.Merge) y reescribe. Si no hay
// transacción en curso abre una para que leer-fusionar-escribir sea atómico.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch repository.Fields) error {
	if !s.inTx {
		return s.RunInTx(ctx, func(tx repository.DocumentStore) error {
			return tx.Update(ctx, collection, id, patch)
		})
	}
	current, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	return s.write(ctx, collection, id, repository.Merge(current.Fields, patch))
}

// Upsert garantiza primero que la fila exista (INSERT ... DO NOTHING) para poder
// bloquearla; un segundo escritor concurrente espera en el índice único.
func (s *DocumentStore) Upsert(ctx context.Context, collection, id string, patch repository.Fields) error {
	if !s.inTx {
		return s.RunInTx(ctx, func(tx repository.DocumentStore) error {
			return tx.Upsert(ctx, collection, id, patch)
		})
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, '{}'::jsonb, now(), now())
		ON CONFLICT (collection, id) DO NOTHING`, collection, id)
	if err != nil {
		return classify("upsert "+collection+"/"+id, err)
	}
	return s.Update(ctx, collection, id, patch)
}

func (s *DocumentStore) write(ctx context.Context, collection, id string, fields repository.Fields) error {
	raw, err := encodeFields(fields)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE documents SET data = $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`, collection, id, raw)
	if err != nil {
		return classify("update "+collection+"/"+id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina un documento; ErrNotFound si no existía.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return classify("delete "+collection+"/"+id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return nil
}

// RunInTx inicia una transacción, ejecuta fn con un store atado a la tx y hace Commit o Rollback.
// Una llamada anidada reutiliza la transacción en curso.
func (s *DocumentStore) RunInTx(ctx context.Context, fn func(tx repository.DocumentStore) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&DocumentStore{pool: s.pool, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

func encodeFields(fields repository.Fields) (string, error) {
	if fields == nil {
		fields = repository.Fields{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeFields(raw []byte) (repository.Fields, error) {
	fields := repository.Fields{}
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("jsonb inválido: %w", err)
	}
	return fields, nil
}
