package referencedata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var ErrUnknownAsset = errors.New("unknown asset")

// Store hands out the current Registry. Reload swaps in a fresh one; readers
// holding an older Registry keep a consistent view until they are done.
type Store struct {
	AssetsDir string
	Updater   *Updater

	current atomic.Pointer[Registry]
}

func NewStore(assetsDir string, updater *Updater) *Store {
	store := &Store{
		AssetsDir: assetsDir,
		Updater:   updater,
	}
	store.current.Store(EmptyRegistry())

	return store
}

func (s *Store) Current() *Registry {
	return s.current.Load()
}

// Replace installs registry as the current version.
func (s *Store) Replace(registry *Registry) {
	s.current.Store(registry)
}

// Reload brings the mirrored files up to date when an Updater is configured
// and parses them into a new Registry. On failure the previous Registry stays
// in place.
func (s *Store) Reload(ctx context.Context) error {
	if s.Updater != nil {
		if err := s.Updater.UpdateIfNeeded(ctx, false); err != nil {
			log.Warn().Err(err).Msg("Reference data update check failed, using local copy")
		}
	}

	registry, err := LoadFromDir(s.AssetsDir)
	if err != nil {
		return fmt.Errorf("loading reference data from %s: %w", s.AssetsDir, err)
	}

	s.Replace(registry)

	log.Info().
		Int("stations", len(registry.stations)).
		Int("traintypes", len(registry.trainTypes)).
		Int("destinations", len(registry.destinations)).
		Time("loadedAt", registry.LoadedAt).
		Msg("Reference data loaded")

	return nil
}

// Run reloads the registry every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to reload reference data")
			}
		}
	}
}

// ReadAsset returns the raw contents of a mirrored reference file. Only
// names listed in AssetFiles are served. A missing file triggers one update
// attempt.
func (s *Store) ReadAsset(ctx context.Context, filename string) ([]byte, error) {
	if !slices.Contains(AssetFiles, filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, filename)
	}

	path := filepath.Join(s.AssetsDir, filename)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && s.Updater != nil {
		if updateErr := s.Updater.UpdateIfNeeded(ctx, false); updateErr != nil {
			log.Warn().Err(updateErr).Str("file", filename).Msg("Failed to update missing reference file")
		}
		data, err = os.ReadFile(path)
	}

	return data, err
}
