package referencedata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/trainboard/trainboard/pkg/fetch"
)

// Updater mirrors the operator's reference files into a local directory.
// The operator publishes a version string in system.json; files are only
// downloaded again when that version changes, and the version itself is
// only checked once per CheckInterval.
type Updater struct {
	BaseURL       string
	AssetsDir     string
	CheckInterval time.Duration
	Fetcher       *fetch.Fetcher

	Now func() time.Time
}

type versionInfo struct {
	Version   string `json:"version"`
	CheckedAt int64  `json:"checkedAt"`
}

type systemDocument struct {
	System []struct {
		Version string `json:"version"`
	} `json:"system"`
}

func (u *Updater) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// UpdateIfNeeded refreshes the mirrored files when the last version check is
// older than CheckInterval or no version has been recorded yet. force skips
// the interval check.
func (u *Updater) UpdateIfNeeded(ctx context.Context, force bool) error {
	if err := os.MkdirAll(u.AssetsDir, 0o755); err != nil {
		return err
	}

	current := u.readVersion()
	now := u.now()

	if !force && current.Version != "" && now.Sub(time.UnixMilli(current.CheckedAt)) < u.CheckInterval {
		log.Debug().Str("version", current.Version).Msg("Reference data version checked recently, skipping")
		return nil
	}

	log.Info().Str("version", current.Version).Msg("Checking for reference data updates")

	var system systemDocument
	systemURL := fmt.Sprintf("%s/config/system.json?ver=%d", u.BaseURL, now.UnixMilli())
	if err := u.Fetcher.GetJSON(ctx, systemURL, &system); err != nil {
		return err
	}

	latest := ""
	for _, entry := range system.System {
		if entry.Version != "" {
			latest = entry.Version
			break
		}
	}
	if latest == "" {
		log.Warn().Msg("system.json carries no version")
		return nil
	}

	if latest != current.Version || force {
		log.Info().Str("from", current.Version).Str("to", latest).Msg("Downloading reference data")
		u.downloadAll(ctx, latest)
	}

	return u.writeVersion(versionInfo{Version: latest, CheckedAt: now.UnixMilli()})
}

func (u *Updater) downloadAll(ctx context.Context, version string) {
	for _, filename := range AssetFiles {
		url := fmt.Sprintf("%s/config/%s?ver=%s", u.BaseURL, filename, version)

		body, err := u.Fetcher.Get(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("Failed to fetch reference file")
			continue
		}

		if !json.Valid(body) {
			log.Warn().Str("file", filename).Msg("Reference file is not valid JSON, keeping previous copy")
			continue
		}

		if err := writeFileAtomic(filepath.Join(u.AssetsDir, filename), body); err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("Failed to write reference file")
		}
	}
}

func (u *Updater) readVersion() versionInfo {
	var info versionInfo

	data, err := os.ReadFile(filepath.Join(u.AssetsDir, VersionFile))
	if err != nil {
		return info
	}

	if err := json.Unmarshal(data, &info); err != nil {
		log.Warn().Err(err).Msg("Failed to parse reference data version file")
		return versionInfo{}
	}

	return info
}

func (u *Updater) writeVersion(info versionInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}

	return writeFileAtomic(filepath.Join(u.AssetsDir, VersionFile), data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
