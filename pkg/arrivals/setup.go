package arrivals

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/trainboard/trainboard/pkg/config"
	"github.com/trainboard/trainboard/pkg/feed"
	"github.com/trainboard/trainboard/pkg/redis_client"
	"github.com/trainboard/trainboard/pkg/referencedata"
	"github.com/trainboard/trainboard/pkg/stations"
)

// Setup wires an Engine from configuration: reference data is loaded (and
// refreshed from upstream when due), schedules go through redis when it is
// configured.
func Setup(ctx context.Context, cfg config.Config) (*Engine, *referencedata.Store, error) {
	store := referencedata.NewStore(cfg.AssetsDir, referencedata.NewUpdater(cfg))
	if err := store.Reload(ctx); err != nil {
		return nil, nil, err
	}

	lineTable, err := stations.LoadLineTable(cfg.LinesFile)
	if err != nil {
		return nil, nil, err
	}

	var provider feed.Provider = feed.NewClient(cfg)
	if redis_client.Enabled() {
		if err := redis_client.Connect(); err != nil {
			return nil, nil, err
		}
		provider = feed.NewScheduleCache(provider, redis_client.Client, cfg.ScheduleCacheTTL)
	} else {
		log.Info().Msg("No redis configured, schedules will not be cached")
	}

	engine := &Engine{
		Reference:  store,
		Provider:   provider,
		LineTable:  lineTable,
		Workers:    cfg.ScheduleWorkers,
		LineFilter: cfg.LineFilter,
		Location:   cfg.Location(),
	}

	return engine, store, nil
}
