package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/trainboard/trainboard/pkg/traffic"
)

const notAvailable = "N/A"

// ScheduleCache keeps decoded timetables in redis in front of a Provider.
// Timetables that do not exist upstream are remembered as well so repeated
// lookups for unscheduled trains stay cheap. Snapshots always go to the
// wrapped Provider.
type ScheduleCache struct {
	Provider

	Cache *cache.Cache[string]
}

func NewScheduleCache(provider Provider, client *redis.Client, ttl time.Duration) *ScheduleCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &ScheduleCache{
		Provider: provider,
		Cache:    cache.New[string](redisStore),
	}
}

func scheduleKey(trainID string) string {
	return fmt.Sprintf("trainboard:schedule:%s", trainID)
}

func (s *ScheduleCache) GetTrainSchedule(ctx context.Context, trainID string) (*traffic.TrainSchedule, error) {
	trainID = strings.TrimSpace(trainID)
	if trainID == "" {
		return nil, fmt.Errorf("empty train number: %w", traffic.ErrNotFound)
	}

	key := scheduleKey(trainID)

	cached, err := s.Cache.Get(ctx, key)
	if err == nil {
		if cached == notAvailable {
			return nil, fmt.Errorf("train %s: %w", trainID, traffic.ErrNotFound)
		}

		var schedule *traffic.TrainSchedule
		if err := json.Unmarshal([]byte(cached), &schedule); err == nil && schedule != nil {
			return schedule, nil
		}

		log.Warn().Str("train", trainID).Msg("Discarding unreadable cached schedule")
	}

	schedule, err := s.Provider.GetTrainSchedule(ctx, trainID)
	if err != nil {
		if errors.Is(err, traffic.ErrNotFound) || errors.Is(err, traffic.ErrMalformedSchedule) {
			if setErr := s.Cache.Set(ctx, key, notAvailable); setErr != nil {
				log.Debug().Err(setErr).Str("train", trainID).Msg("Failed to cache missing schedule")
			}
		}
		return nil, err
	}

	scheduleJSON, _ := json.Marshal(schedule)
	if err := s.Cache.Set(ctx, key, string(scheduleJSON)); err != nil {
		log.Debug().Err(err).Str("train", trainID).Msg("Failed to cache schedule")
	}

	return schedule, nil
}
