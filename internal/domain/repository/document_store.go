package repository

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Colecciones del almacén de documentos.
const (
	CollectionUsers                 = "users"
	CollectionCameraAccessRequests  = "cameraAccessRequests"
	CollectionCameraAccess          = "cameraAccess"
	CollectionSecurityRegistrations = "securityRegistrations"
	CollectionEvents                = "events"
	CollectionEventRegistrations    = "eventRegistrations"
	CollectionNotifications         = "notifications"
	CollectionContentPages          = "contentPages"
)

// Fields contenido de un documento. Valores primitivos, slices y mapas anidados.
type Fields map[string]interface{}

// Document documento leído del almacén.
type Document struct {
	ID     string
	Fields Fields
}

// Get devuelve el valor de un campo de primer nivel (nil si no existe).
func (d Document) Get(field string) interface{} {
	if d.Fields == nil {
		return nil
	}
	return d.Fields[field]
}

// String devuelve el campo como string ("" si falta o no es string).
func (d Document) String(field string) string {
	s, _ := d.Get(field).(string)
	return s
}

// Decode vuelca el documento en una entidad con tags mapstructure. El id del documento
// se expone como campo "id". Acepta timestamps como time.Time o string RFC3339.
func (d Document) Decode(out interface{}) error {
	input := make(map[string]interface{}, len(d.Fields)+1)
	for k, v := range d.Fields {
		input[k] = v
	}
	input["id"] = d.ID

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
	})
	if err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decode %s: %w", d.ID, err)
	}
	return nil
}

// timeHook admite campos de fecha ausentes o vacíos y el formato {_seconds,_nanoseconds}
// de documentos importados.
func timeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		if v == "" {
			return time.Time{}, nil
		}
	case map[string]interface{}:
		secs, okS := toInt64(v["_seconds"])
		nanos, _ := toInt64(v["_nanoseconds"])
		if okS {
			return time.Unix(secs, nanos).UTC(), nil
		}
	}
	return data, nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// FilterOp operador de comparación soportado por Query.
type FilterOp string

const (
	OpEqual FilterOp = "=="
)

// Filter condición sobre un campo de primer nivel.
type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

// Where atajo para un filtro de igualdad.
func Where(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// DocumentStore puerto hacia el almacén de documentos externo (fuente de verdad).
// Todas las operaciones devuelven domain.ErrNotFound cuando el documento no existe
// y envuelven domain.ErrUnavailable ante fallos transitorios del backend.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Add(ctx context.Context, collection string, fields Fields) (string, error)
	Set(ctx context.Context, collection, id string, fields Fields) error
	// Update fusiona patch sobre el documento existente (ver Merge).
	Update(ctx context.Context, collection, id string, patch Fields) error
	// Upsert como Update pero crea el documento si no existe. Atómico también
	// cuando dos escritores crean el mismo documento a la vez.
	Upsert(ctx context.Context, collection, id string, patch Fields) error
	Delete(ctx context.Context, collection, id string) error
	// RunInTx ejecuta fn de forma atómica. Dentro de fn, Get bloquea el documento
	// leído hasta el commit, de modo que comprobar-y-escribir no admite carreras.
	RunInTx(ctx context.Context, fn func(tx DocumentStore) error) error
}

type deleteField struct{}

// DeleteField valor centinela: en un patch elimina la clave correspondiente.
var DeleteField = deleteField{}

// Merge aplica patch sobre dst y devuelve el resultado (dst no se modifica).
// Los mapas anidados se fusionan recursivamente; DeleteField borra la clave;
// el resto de valores reemplaza.
func Merge(dst, patch Fields) Fields {
	out := make(Fields, len(dst)+len(patch))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range patch {
		if v == DeleteField {
			delete(out, k)
			continue
		}
		if pm, ok := asFields(v); ok {
			if dm, ok := asFields(out[k]); ok {
				out[k] = map[string]interface{}(Merge(dm, pm))
				continue
			}
			out[k] = map[string]interface{}(Merge(nil, pm))
			continue
		}
		out[k] = v
	}
	return out
}

func asFields(v interface{}) (Fields, bool) {
	switch m := v.(type) {
	case Fields:
		return m, true
	case map[string]interface{}:
		return Fields(m), true
	}
	return nil, false
}
