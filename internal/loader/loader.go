package loader

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationdir/internal/config"
	"github.com/bbernstein/stationdir/internal/table"
	"github.com/bbernstein/stationdir/pkg/http/client"
)

// Loader materializes the full station directory table. Lookups walk the
// cache layers in order: parsed tables in an in-memory LRU, raw dataset
// bytes on disk under the cache directory (honoring MaxAge), then the
// optional S3 mirror ahead of the HTTP origin.
type Loader struct {
	httpClient client.Interface
	mirror     *S3Mirror
	memory     *tableCache
	cacheDir   string
	maxAge     time.Duration
	maxThreads int
	path       string
}

// New creates a loader from the service configuration. mirror may be nil
// when no S3 bucket is configured.
func New(cfg *config.Config, httpClient client.Interface, mirror *S3Mirror) (*Loader, error) {
	memory, err := newTableCache(defaultLRUSize, cfg.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("creating table cache: %w", err)
	}

	return &Loader{
		httpClient: httpClient,
		mirror:     mirror,
		memory:     memory,
		cacheDir:   cfg.CacheDir,
		maxAge:     cfg.MaxAge,
		maxThreads: cfg.MaxThreads,
		path:       cfg.DatasetPath,
	}, nil
}

// Load returns the full station directory table.
func (l *Loader) Load(ctx context.Context) (table.Table, error) {
	if tbl, ok := l.memory.get(l.path); ok {
		log.Debug().Msg("Cache HIT for station directory")
		return tbl, nil
	}
	log.Debug().Msg("Cache MISS for station directory")

	raw, err := l.loadRaw(ctx)
	if err != nil {
		return table.Table{}, err
	}

	rows, err := parseDataset(raw, l.maxThreads)
	if err != nil {
		return table.Table{}, fmt.Errorf("parsing station dataset: %w", err)
	}

	tbl := table.New(rows)
	l.memory.set(l.path, tbl)
	return tbl, nil
}

// CacheStats reports hit/miss counters for the in-memory layer.
func (l *Loader) CacheStats() map[string]uint64 {
	return l.memory.stats()
}

func (l *Loader) loadRaw(ctx context.Context) ([]byte, error) {
	if data, ok := l.readCacheFile(); ok {
		return data, nil
	}

	if l.mirror != nil {
		data, err := l.mirror.Get(ctx, l.path)
		if err == nil {
			l.writeCacheFile(data)
			return data, nil
		}
		log.Warn().Err(err).Msg("Dataset mirror unavailable, falling back to origin")
	}

	resp, err := l.httpClient.Get(ctx, l.path)
	if err != nil {
		return nil, fmt.Errorf("fetching station dataset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching station dataset: status %d", resp.StatusCode)
	}

	l.writeCacheFile(resp.Body)
	return resp.Body, nil
}

func (l *Loader) cacheFile() string {
	return filepath.Join(l.cacheDir, "stations", filepath.Base(l.path))
}

func (l *Loader) readCacheFile() ([]byte, bool) {
	path := l.cacheFile()
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > l.maxAge {
		log.Debug().Str("path", path).Msg("Cached dataset file expired")
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error reading cached dataset file")
		return nil, false
	}
	log.Debug().Str("path", path).Msg("Using cached dataset file")
	return data, true
}

// writeCacheFile persists the dataset for later runs. Failure is not
// fatal; the in-memory copy still serves this process.
func (l *Loader) writeCacheFile(data []byte) {
	path := l.cacheFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error creating dataset cache directory")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error writing cached dataset file")
	}
}
