// Package app wires application services with infrastructure adapters.
package app

import (
	"context"

	"github.com/nlp2cmd/nlp2cmd/assets"
	configvalidate "github.com/nlp2cmd/nlp2cmd/internal/application/config"
	"github.com/nlp2cmd/nlp2cmd/internal/application/doctor"
	"github.com/nlp2cmd/nlp2cmd/internal/application/synth"
	"github.com/nlp2cmd/nlp2cmd/internal/infrastructure/cache"
	"github.com/nlp2cmd/nlp2cmd/internal/infrastructure/config"
	"github.com/nlp2cmd/nlp2cmd/internal/infrastructure/extract"
	"github.com/nlp2cmd/nlp2cmd/internal/infrastructure/history"
	"github.com/nlp2cmd/nlp2cmd/internal/infrastructure/resolver"
	"github.com/nlp2cmd/nlp2cmd/internal/pkg/logger"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// Container holds the wired dependency graph.
type Container struct {
	SynthService  *synth.Service
	DoctorService *doctor.Service
	ConfigLoader  *config.FileLoader
	Cache         ports.SchemaCache
	Extractor     ports.SchemaExtractor
	History       ports.HistoryRepository
	Logger        ports.Logger
}

// BuildContainer constructs the dependency graph. The schema cache is
// created once here and passed explicitly into the synthesizer; there is no
// ambient global cache.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := configvalidate.Validate(cfg); err != nil {
		return nil, err
	}

	log := logger.NewZap(verbose)
	schemaCache := cache.NewMemoryCache(cfg.Cache)

	// Embedded defaults first, then user schema files override them.
	if _, skipped, err := cache.LoadBytes(schemaCache, assets.DefaultSchemasJSON, log); err != nil {
		return nil, err
	} else if skipped > 0 {
		log.Warn("embedded schemas partially loaded", map[string]interface{}{"skipped": skipped})
	}
	for _, file := range cfg.Schemas.Files {
		loaded, skipped, err := cache.LoadFile(schemaCache, file, log)
		if err != nil {
			log.Warn("schema file not loaded", map[string]interface{}{"file": file, "error": err.Error()})
			continue
		}
		log.Debug("schema file loaded", map[string]interface{}{"file": file, "loaded": loaded, "skipped": skipped})
	}
	if cfg.Cache.SchemaFile != "" {
		if _, _, err := cache.LoadFile(schemaCache, cfg.Cache.SchemaFile, log); err != nil {
			log.Warn("schema file not loaded", map[string]interface{}{"file": cfg.Cache.SchemaFile, "error": err.Error()})
		}
	}

	var historyStore ports.HistoryRepository
	if cfg.History.Enabled {
		historyStore = history.NewSQLiteStore(cfg.History.Path)
	}

	resolverFactory := resolver.NewFactory()
	extractor := extract.New()

	synthService := &synth.Service{
		ConfigProvider:  cfgLoader,
		Cache:           schemaCache,
		Extractor:       extractor,
		ResolverFactory: resolverFactory,
		History:         historyStore,
		Logger:          log,
	}

	doctorService := &doctor.Service{
		ConfigProvider:  cfgLoader,
		Cache:           schemaCache,
		ResolverFactory: resolverFactory,
		History:         historyStore,
	}

	return &Container{
		SynthService:  synthService,
		DoctorService: doctorService,
		ConfigLoader:  cfgLoader,
		Cache:         schemaCache,
		Extractor:     extractor,
		History:       historyStore,
		Logger:        log,
	}, nil
}
