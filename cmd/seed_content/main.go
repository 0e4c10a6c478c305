// seed_content carga las secciones públicas (lugares, servicios, historia, emergencias)
// desde un XML exportado por la junta de acción comunal.
//
// Uso: go run ./cmd/seed_content [ruta/contenido.xml]
// Por defecto busca contenido.xml en el directorio actual. Acepta UTF-8 e ISO-8859-1.
package main

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/postgres"
	"github.com/jhoicas/portal-comunitario-api/pkg/config"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type contenido struct {
	Secciones []seccion `xml:"seccion"`
}

type seccion struct {
	ID     string `xml:"id,attr"`
	Titulo string `xml:"titulo,attr"`
	Cuerpo string `xml:"cuerpo"`
	Items  []item `xml:"item"`
}

type item struct {
	Titulo      string `xml:"titulo,attr"`
	Telefono    string `xml:"telefono,attr"`
	Direccion   string `xml:"direccion,attr"`
	Imagen      string `xml:"imagen,attr"`
	Descripcion string `xml:",chardata"`
}

// seedActor autor registrado en updatedBy.
var seedActor = policy.Principal{ID: "seed_content", Role: policy.RoleSuperAdmin}

func main() {
	xmlPath := "contenido.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	pages, err := parseContent(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema de documentos")
	}

	contentUC := usecase.NewContentUseCase(postgres.NewDocumentStore(pool))
	for section, in := range pages {
		if _, err := contentUC.UpsertSection(ctx, seedActor, section, in); err != nil {
			log.Fatal().Err(err).Str("section", section).Msg("guardar sección")
		}
		log.Info().Str("section", section).Int("items", len(in.Items)).Msg("sección cargada")
	}
	fmt.Printf("Cargadas %d secciones desde %s\n", len(pages), xmlPath)
}

// parseContent decodifica el XML y agrupa por sección. Las secciones desconocidas
// son un error para no publicar contenido en una ruta que nadie enlaza.
func parseContent(r io.Reader) (map[string]dto.UpsertContentRequest, error) {
	var c contenido
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}

	out := make(map[string]dto.UpsertContentRequest, len(c.Secciones))
	for _, s := range c.Secciones {
		id := strings.ToLower(strings.TrimSpace(s.ID))
		if !entity.IsSection(id) {
			return nil, fmt.Errorf("sección desconocida %q", s.ID)
		}
		in := dto.UpsertContentRequest{
			Title: strings.TrimSpace(s.Titulo),
			Body:  strings.TrimSpace(s.Cuerpo),
			Items: make([]dto.ContentItemDTO, 0, len(s.Items)),
		}
		for _, it := range s.Items {
			if strings.TrimSpace(it.Titulo) == "" {
				continue
			}
			in.Items = append(in.Items, dto.ContentItemDTO{
				Title:       strings.TrimSpace(it.Titulo),
				Description: strings.TrimSpace(it.Descripcion),
				Phone:       strings.TrimSpace(it.Telefono),
				Address:     strings.TrimSpace(it.Direccion),
				ImageURL:    strings.TrimSpace(it.Imagen),
			})
		}
		out[id] = in
	}
	return out, nil
}
