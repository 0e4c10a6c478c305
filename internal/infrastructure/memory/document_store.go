package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

type collections map[string]map[string]repository.Fields

// DocumentStore almacén de documentos en memoria. Mismo contrato que el adaptador
// PostgreSQL; se usa en desarrollo (STORE_DRIVER=memory) y en tests.
// Los valores se normalizan a JSON al escribir para comportarse igual que JSONB.
// RunInTx serializa la transacción completa con el mismo mutex de escritura.
type DocumentStore struct {
	mu   sync.RWMutex
	data collections
}

// NewDocumentStore construye un almacén vacío.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{data: collections{}}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{data: s.data}.get(collection, id)
}

func (s *DocumentStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{data: s.data}.query(collection, filters)
}

func (s *DocumentStore) Add(ctx context.Context, collection string, fields repository.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{data: s.data}.add(collection, fields)
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, fields repository.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{data: s.data}.set(collection, id, fields)
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch repository.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{data: s.data}.update(collection, id, patch)
}

func (s *DocumentStore) Upsert(ctx context.Context, collection, id string, patch repository.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{data: s.data}.upsert(collection, id, patch)
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{data: s.data}.delete(collection, id)
}

// RunInTx trabaja sobre una copia; si fn no falla la copia reemplaza el estado.
func (s *DocumentStore) RunInTx(ctx context.Context, fn func(tx repository.DocumentStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.data.clone()
	if err := fn(&txStore{view: view{data: staged}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = staged
	return nil
}

// txStore vista transaccional: el lock ya lo tiene RunInTx.
type txStore struct {
	view view
}

func (t *txStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	return t.view.get(collection, id)
}

func (t *txStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	return t.view.query(collection, filters)
}

func (t *txStore) Add(ctx context.Context, collection string, fields repository.Fields) (string, error) {
	return t.view.add(collection, fields)
}

func (t *txStore) Set(ctx context.Context, collection, id string, fields repository.Fields) error {
	return t.view.set(collection, id, fields)
}

func (t *txStore) Update(ctx context.Context, collection, id string, patch repository.Fields) error {
	return t.view.update(collection, id, patch)
}

func (t *txStore) Upsert(ctx context.Context, collection, id string, patch repository.Fields) error {
	return t.view.upsert(collection, id, patch)
}

func (t *txStore) Delete(ctx context.Context, collection, id string) error {
	return t.view.delete(collection, id)
}

// RunInTx anidado: se ejecuta dentro de la transacción en curso.
func (t *txStore) RunInTx(ctx context.Context, fn func(tx repository.DocumentStore) error) error {
	return fn(t)
}

type view struct {
	data collections
}

func (v view) get(collection, id string) (repository.Document, error) {
	fields, ok := v.data[collection][id]
	if !ok {
		return repository.Document{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return repository.Document{ID: id, Fields: deepCopy(fields)}, nil
}

func (v view) query(collection string, filters []repository.Filter) ([]repository.Document, error) {
	normFilters := make([]repository.Filter, 0, len(filters))
	for _, f := range filters {
		if f.Op != "" && f.Op != repository.OpEqual {
			return nil, fmt.Errorf("query %s: operador %q no soportado", collection, f.Op)
		}
		val, err := normalizeValue(f.Value)
		if err != nil {
			return nil, err
		}
		normFilters = append(normFilters, repository.Filter{Field: f.Field, Op: repository.OpEqual, Value: val})
	}

	ids := make([]string, 0, len(v.data[collection]))
	for id := range v.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]repository.Document, 0)
	for _, id := range ids {
		fields := v.data[collection][id]
		if matches(fields, normFilters) {
			out = append(out, repository.Document{ID: id, Fields: deepCopy(fields)})
		}
	}
	return out, nil
}

func (v view) add(collection string, fields repository.Fields) (string, error) {
	id := uuid.NewString()
	if err := v.set(collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (v view) set(collection, id string, fields repository.Fields) error {
	if id == "" {
		return fmt.Errorf("set %s: %w", collection, domain.ErrInvalidInput)
	}
	norm, err := normalize(repository.Merge(nil, fields))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	if v.data[collection] == nil {
		v.data[collection] = map[string]repository.Fields{}
	}
	v.data[collection][id] = norm
	return nil
}

func (v view) update(collection, id string, patch repository.Fields) error {
	current, ok := v.data[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	norm, err := normalize(repository.Merge(current, patch))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	v.data[collection][id] = norm
	return nil
}

func (v view) upsert(collection, id string, patch repository.Fields) error {
	if _, ok := v.data[collection][id]; !ok {
		return v.set(collection, id, patch)
	}
	return v.update(collection, id, patch)
}

func (v view) delete(collection, id string) error {
	if _, ok := v.data[collection][id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	delete(v.data[collection], id)
	return nil
}

func (c collections) clone() collections {
	out := make(collections, len(c))
	for name, docs := range c {
		cp := make(map[string]repository.Fields, len(docs))
		for id, f := range docs {
			cp[id] = f // los documentos se reemplazan completos al escribir, nunca se mutan
		}
		out[name] = cp
	}
	return out
}

func matches(fields repository.Fields, filters []repository.Filter) bool {
	for _, f := range filters {
		got, ok := fields[f.Field]
		if !ok || !equalJSON(got, f.Value) {
			return false
		}
	}
	return true
}

func equalJSON(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}

// normalize pasa los campos por JSON: fechas a RFC3339, números a float64, copia profunda.
func normalize(fields repository.Fields) (repository.Fields, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var out repository.Fields
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = repository.Fields{}
	}
	return out, nil
}

func normalizeValue(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func deepCopy(fields repository.Fields) repository.Fields {
	cp, err := normalize(fields)
	if err != nil {
		return repository.Fields{}
	}
	return cp
}
