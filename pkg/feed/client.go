// Package feed talks to the operator's live traffic feed and per-train
// timetables.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/trainboard/trainboard/pkg/config"
	"github.com/trainboard/trainboard/pkg/fetch"
	"github.com/trainboard/trainboard/pkg/traffic"
)

// Provider is the read side of the live feed used by the prediction engine.
type Provider interface {
	GetLiveSnapshot(ctx context.Context) (*traffic.LiveSnapshot, error)
	GetTrainSchedule(ctx context.Context, trainID string) (*traffic.TrainSchedule, error)
}

type Client struct {
	BaseURL  string
	Fetcher  *fetch.Fetcher
	Location *time.Location

	Now func() time.Time
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		BaseURL:  strings.TrimSuffix(cfg.FeedBaseURL, "/"),
		Fetcher:  fetch.New(cfg.HTTPTimeout),
		Location: cfg.Location(),
	}
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// GetLiveSnapshot downloads the current traffic document. Every failure is
// reported as traffic.ErrUpstreamUnavailable.
func (c *Client) GetLiveSnapshot(ctx context.Context) (*traffic.LiveSnapshot, error) {
	trafficURL := fmt.Sprintf("%s/data/traffic_info.json?ts=%d", c.BaseURL, c.now().UnixMilli())

	body, err := c.Fetcher.Get(ctx, trafficURL)
	if err != nil {
		if errors.Is(err, traffic.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", traffic.ErrUpstreamUnavailable, err)
	}

	snapshot, err := DecodeSnapshot(body, c.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", traffic.ErrUpstreamUnavailable, err)
	}

	if snapshot.Timestamp.IsZero() {
		log.Warn().Msg("Traffic info carried no update timestamp")
	}

	return snapshot, nil
}

// GetTrainSchedule downloads the timetable of one train.
func (c *Client) GetTrainSchedule(ctx context.Context, trainID string) (*traffic.TrainSchedule, error) {
	trainID = strings.TrimSpace(trainID)
	if trainID == "" {
		return nil, fmt.Errorf("empty train id: %w", traffic.ErrNotFound)
	}

	scheduleURL := fmt.Sprintf("%s/dia/%s.json", c.BaseURL, url.PathEscape(trainID))

	body, err := c.Fetcher.Get(ctx, scheduleURL)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", trainID, err)
	}

	return DecodeSchedule(trainID, body)
}
