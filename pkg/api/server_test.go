package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainboard/trainboard/pkg/referencedata"
	"github.com/trainboard/trainboard/pkg/stations"
	"github.com/trainboard/trainboard/pkg/traffic"
)

type fakeTrains struct {
	err error
}

func (f fakeTrains) Snapshot(ctx context.Context) (*traffic.LiveSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &traffic.LiveSnapshot{Stationed: []traffic.StationOccupancy{{LocationID: "E001"}}}, nil
}

func (f fakeTrains) PredictArrivals(ctx context.Context, stationIdentifier string) (*traffic.PredictionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if stationIdentifier != "E001" && stationIdentifier != "新宿" {
		return nil, fmt.Errorf("station %q: %w", stationIdentifier, traffic.ErrNotFound)
	}

	return &traffic.PredictionResult{
		StationID:   "E001",
		StationName: "新宿",
		UpdatedAt:   "2025-04-22 10:50:00",
		Arrivals: []*traffic.ArrivalPrediction{{
			TrainNumber:          "1234",
			Type:                 traffic.TypeDescriptor{Code: "1", Name: "特急", Icon: "特"},
			Direction:            traffic.DirectionUp,
			Destination:          traffic.DestinationDescriptor{Code: "054", Name: "京王多摩センター"},
			DelayMinutes:         5,
			IsCurrentlyAtStation: true,
			EstimatedTime:        "11:05",
			Classification:       traffic.ClassificationStop,
			FreeTextInfo:         "車両点検",
			ScheduledTime:        "11:00",
		}},
	}, nil
}

func (f fakeTrains) TrainsAtLocation(ctx context.Context, identifier string) (*traffic.OccupancyResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &traffic.OccupancyResult{StationID: identifier, Trains: []traffic.TrainDisplay{}}, nil
}

func (f fakeTrains) TrainDetail(ctx context.Context, trainID string) (*traffic.TrainDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	if trainID != "1234" {
		return nil, traffic.ErrNotFound
	}
	return &traffic.TrainDetail{TrainID: trainID, Stops: []traffic.TrainDetailStop{}}, nil
}

type fakeDirectory struct{}

func (fakeDirectory) Resolver() *stations.Resolver {
	registry := referencedata.NewRegistry([]traffic.StationRecord{
		{ID: "E001", Name: "新宿", Kind: traffic.StationKindStation},
		{ID: "E081", Name: "渋谷", Kind: traffic.StationKindStation},
		{ID: "D002", Name: "新宿～笹塚", Kind: traffic.StationKindSection},
	}, nil, nil, nil)

	return stations.NewResolver(registry, stations.DefaultLineTable())
}

type fakeAssets map[string]string

func (f fakeAssets) ReadAsset(ctx context.Context, filename string) ([]byte, error) {
	if content, ok := f[filename]; ok {
		return []byte(content), nil
	}
	return nil, fmt.Errorf("%w: %s", referencedata.ErrUnknownAsset, filename)
}

func newTestServices(trains fakeTrains) Services {
	return Services{
		Trains:           trains,
		Stations:         fakeDirectory{},
		Assets:           fakeAssets{"position.json": `{"pos":[]}`},
		RequestTimeout:   time.Second,
		CORSAllowOrigins: "*",
	}
}

func doRequest(t *testing.T, services Services, path string) (int, map[string]any, []byte) {
	t.Helper()

	resp, err := NewApp(services).Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	json.Unmarshal(body, &decoded)

	return resp.StatusCode, decoded, body
}

func TestVersion(t *testing.T) {
	status, body, _ := doRequest(t, newTestServices(fakeTrains{}), "/version")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v0.1", body["version"])
}

func TestArrivalsBasicView(t *testing.T) {
	status, body, _ := doRequest(t, newTestServices(fakeTrains{}), "/api/trains/arrivals/E001")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "E001", body["stationId"])
	assert.Equal(t, "2025-04-22 10:50:00", body["updatedAt"])

	arriving := body["arrivingTrains"].([]any)
	require.Len(t, arriving, 1)

	train := arriving[0].(map[string]any)
	assert.Equal(t, "11:05", train["estimatedTime"])
	assert.Equal(t, "Stop", train["passType"])
	assert.Equal(t, float64(5), train["delay"])
	assert.Equal(t, "車両点検", train["information"])
	assert.Equal(t, true, train["isInStation"])
	assert.NotContains(t, train, "scheduledTime")
}

func TestArrivalsDetailedView(t *testing.T) {
	status, body, _ := doRequest(t, newTestServices(fakeTrains{}), "/api/trains/arrivals/E001?detailed=true")
	require.Equal(t, http.StatusOK, status)

	train := body["arrivingTrains"].([]any)[0].(map[string]any)
	assert.Equal(t, "車両点検", train["information"])
	assert.Equal(t, true, train["isInStation"])
	assert.Equal(t, "11:00", train["scheduledTime"])
}

func TestArrivalsByEscapedName(t *testing.T) {
	status, body, _ := doRequest(t, newTestServices(fakeTrains{}), "/api/trains/arrivals/"+url.PathEscape("新宿"))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "新宿", body["stationName"])
}

func TestErrorStatusMapping(t *testing.T) {
	status, body, _ := doRequest(t, newTestServices(fakeTrains{}), "/api/trains/arrivals/E999")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "not found")

	status, _, _ = doRequest(t, newTestServices(fakeTrains{err: traffic.ErrUpstreamUnavailable}), "/api/trains/arrivals/E001")
	assert.Equal(t, http.StatusBadGateway, status)

	status, _, _ = doRequest(t, newTestServices(fakeTrains{err: fmt.Errorf("boom")}), "/api/trains")
	assert.Equal(t, http.StatusInternalServerError, status)

	status, _, _ = doRequest(t, newTestServices(fakeTrains{}), "/api/trains/detail/0000")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTrainsRoutes(t *testing.T) {
	services := newTestServices(fakeTrains{})

	status, body, _ := doRequest(t, services, "/api/trains")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["stationed"], 1)

	status, body, _ = doRequest(t, services, "/api/trains/station/E001")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "E001", body["stationId"])

	status, body, _ = doRequest(t, services, "/api/trains/detail/1234")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1234", body["trainId"])
}

func TestStationsRoutes(t *testing.T) {
	services := newTestServices(fakeTrains{})

	status, _, raw := doRequest(t, services, "/api/stations")
	require.Equal(t, http.StatusOK, status)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0]["lineCode"])
	assert.Equal(t, "3", list[1]["lineCode"])

	status, _, raw = doRequest(t, services, "/api/stations/sections")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Section", list[0]["kind"])

	status, body, _ := doRequest(t, services, "/api/stations/id/E081")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "渋谷", body["name"])

	status, body, _ = doRequest(t, services, "/api/stations/name/"+url.PathEscape("新宿"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "E001", body["id"])

	status, _, _ = doRequest(t, services, "/api/stations/id/E999")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAssetsRoute(t *testing.T) {
	services := newTestServices(fakeTrains{})

	status, _, raw := doRequest(t, services, "/assets/position.json")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"pos":[]}`, string(raw))

	status, _, _ = doRequest(t, services, "/assets/traffic_info.json")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownRoute(t *testing.T) {
	status, _, _ := doRequest(t, newTestServices(fakeTrains{}), "/nothing/here")

	assert.Equal(t, http.StatusNotFound, status)
}
