package referencedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainboard/trainboard/pkg/fetch"
	"github.com/trainboard/trainboard/pkg/traffic"
)

const testPositions = `{"pos":[
	{"ID":"E001","name":"新宿","kind":"駅"},
	{"ID":"E002","name":"笹塚","kind":"駅"},
	{"ID":"U001","name":"新宿～笹塚","kind":"駅間","max_disp":"3"},
	{"ID":"E001","name":"重複","kind":"駅"}
]}`

const testTrainTypes = `{"syasyu":[{"code":"1","style":"express","iconname":"特","name":"特急","name_e":"Express"}]}`

const testDestinations = `{"ikisaki":[{"code":"054","name":"京王多摩センター"}]}`

func writeAssets(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		PositionFile:    testPositions,
		TrainTypeFile:   testTrainTypes,
		DestinationFile: testDestinations,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir)

	registry, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Len(t, registry.StationRegistry(), 4)

	shinjuku, ok := registry.StationByID("E001")
	require.True(t, ok)
	assert.Equal(t, "新宿", shinjuku.Name)
	assert.Equal(t, traffic.StationKindStation, shinjuku.Kind)

	section, ok := registry.StationByName("新宿～笹塚")
	require.True(t, ok)
	assert.Equal(t, traffic.StationKindSection, section.Kind)
	require.NotNil(t, section.MaxDisplay)
	assert.Equal(t, 3, *section.MaxDisplay)

	trainType, ok := registry.TrainType("1")
	require.True(t, ok)
	assert.Equal(t, "特", trainType.IconName)
	assert.Equal(t, "Express", trainType.NameEnglish)

	_, ok = registry.Destination("054")
	assert.True(t, ok)
	assert.Empty(t, registry.Lines())
}

func TestLoadFromDirMissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PositionFile), []byte(testPositions), 0o644))

	_, err := LoadFromDir(dir)

	assert.Error(t, err)
}

func TestRegistryMapsAreCopies(t *testing.T) {
	registry := NewRegistry(nil, []traffic.TrainType{{Code: "1", Name: "特急"}}, nil, nil)

	types := registry.TrainTypeRegistry()
	delete(types, "1")

	_, ok := registry.TrainType("1")
	assert.True(t, ok)
}

func TestRegistrySlicesAreCopies(t *testing.T) {
	registry := NewRegistry(
		[]traffic.StationRecord{{ID: "E001", Name: "新宿", Kind: traffic.StationKindStation}},
		nil,
		nil,
		[]traffic.Line{{Code: "1", Name: "京王線"}},
	)

	stations := registry.StationRegistry()
	stations[0].Name = "笹塚"
	lines := registry.Lines()
	lines[0].Name = "井の頭線"

	assert.Equal(t, "新宿", registry.StationRegistry()[0].Name)
	assert.Equal(t, "京王線", registry.Lines()[0].Name)

	station, ok := registry.StationByID("E001")
	require.True(t, ok)
	assert.Equal(t, "新宿", station.Name)
}

func TestStoreReloadSwapsRegistry(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	before := store.Current()
	assert.Empty(t, before.StationRegistry())

	assert.Error(t, store.Reload(context.Background()))
	assert.Same(t, before, store.Current())

	writeAssets(t, dir)
	require.NoError(t, store.Reload(context.Background()))

	after := store.Current()
	assert.NotSame(t, before, after)
	assert.False(t, after.LoadedAt.Before(before.LoadedAt))
	assert.Len(t, after.StationRegistry(), 4)
	assert.Empty(t, before.StationRegistry())
}

type upstream struct {
	server        *httptest.Server
	version       atomic.Value
	systemCalls   atomic.Int32
	downloadCalls atomic.Int32
}

func newUpstream(t *testing.T, version string) *upstream {
	u := &upstream{}
	u.version.Store(version)

	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/config/system.json":
			u.systemCalls.Add(1)
			fmt.Fprintf(w, `{"system":[{"name":"app"},{"version":%q}]}`, u.version.Load().(string))
		case r.URL.Path == "/config/position.json":
			u.downloadCalls.Add(1)
			assert.Equal(t, u.version.Load().(string), r.URL.Query().Get("ver"))
			w.Write([]byte(testPositions))
		case r.URL.Path == "/config/syasyu.json":
			u.downloadCalls.Add(1)
			w.Write([]byte(testTrainTypes))
		case r.URL.Path == "/config/ikisaki.json":
			u.downloadCalls.Add(1)
			w.Write([]byte(testDestinations))
		case r.URL.Path == "/config/station_info.json":
			u.downloadCalls.Add(1)
			w.Write([]byte(`not json`))
		case strings.HasPrefix(r.URL.Path, "/config/"):
			u.downloadCalls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(u.server.Close)

	return u
}

func newTestUpdater(u *upstream, dir string, now time.Time) *Updater {
	fetcher := fetch.New(time.Second)
	fetcher.InitialInterval = time.Millisecond

	return &Updater{
		BaseURL:       u.server.URL,
		AssetsDir:     dir,
		CheckInterval: 7 * 24 * time.Hour,
		Fetcher:       fetcher,
		Now:           func() time.Time { return now },
	}
}

func readVersionFile(t *testing.T, dir string) versionInfo {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, VersionFile))
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal(data, &info))
	return info
}

func TestUpdaterDownloadsOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	u := newUpstream(t, "v2")
	now := time.Date(2025, 4, 22, 12, 0, 0, 0, time.UTC)

	require.NoError(t, newTestUpdater(u, dir, now).UpdateIfNeeded(context.Background(), false))

	assert.Equal(t, int32(1), u.systemCalls.Load())
	assert.Equal(t, int32(len(AssetFiles)), u.downloadCalls.Load())
	assert.FileExists(t, filepath.Join(dir, PositionFile))
	assert.NoFileExists(t, filepath.Join(dir, "station_info.json"))
	assert.NoFileExists(t, filepath.Join(dir, "line.json"))

	info := readVersionFile(t, dir)
	assert.Equal(t, "v2", info.Version)
	assert.Equal(t, now.UnixMilli(), info.CheckedAt)

	_, err := LoadFromDir(dir)
	assert.NoError(t, err)
}

func TestUpdaterSkipsWithinInterval(t *testing.T) {
	dir := t.TempDir()
	u := newUpstream(t, "v2")
	now := time.Date(2025, 4, 22, 12, 0, 0, 0, time.UTC)

	require.NoError(t, newTestUpdater(u, dir, now).UpdateIfNeeded(context.Background(), false))
	require.NoError(t, newTestUpdater(u, dir, now.Add(24*time.Hour)).UpdateIfNeeded(context.Background(), false))

	assert.Equal(t, int32(1), u.systemCalls.Load())
}

func TestUpdaterChecksAgainAfterIntervalWithoutRedownload(t *testing.T) {
	dir := t.TempDir()
	u := newUpstream(t, "v2")
	now := time.Date(2025, 4, 22, 12, 0, 0, 0, time.UTC)

	require.NoError(t, newTestUpdater(u, dir, now).UpdateIfNeeded(context.Background(), false))
	downloads := u.downloadCalls.Load()

	later := now.Add(8 * 24 * time.Hour)
	require.NoError(t, newTestUpdater(u, dir, later).UpdateIfNeeded(context.Background(), false))

	assert.Equal(t, int32(2), u.systemCalls.Load())
	assert.Equal(t, downloads, u.downloadCalls.Load())
	assert.Equal(t, later.UnixMilli(), readVersionFile(t, dir).CheckedAt)
}

func TestUpdaterRedownloadsOnVersionChange(t *testing.T) {
	dir := t.TempDir()
	u := newUpstream(t, "v2")
	now := time.Date(2025, 4, 22, 12, 0, 0, 0, time.UTC)

	require.NoError(t, newTestUpdater(u, dir, now).UpdateIfNeeded(context.Background(), false))
	u.version.Store("v3")

	require.NoError(t, newTestUpdater(u, dir, now.Add(time.Minute)).UpdateIfNeeded(context.Background(), true))

	assert.Equal(t, int32(2*len(AssetFiles)), u.downloadCalls.Load())
	assert.Equal(t, "v3", readVersionFile(t, dir).Version)
}

func TestStoreReadAsset(t *testing.T) {
	dir := t.TempDir()
	u := newUpstream(t, "v1")
	store := NewStore(dir, newTestUpdater(u, dir, time.Now()))

	data, err := store.ReadAsset(context.Background(), PositionFile)
	require.NoError(t, err)
	assert.JSONEq(t, testPositions, string(data))

	_, err = store.ReadAsset(context.Background(), "traffic_info.json")
	assert.ErrorIs(t, err, ErrUnknownAsset)

	_, err = store.ReadAsset(context.Background(), "../secrets.json")
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestStoreRunStopsOnCancel(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
