package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hawaii-climate/internal/modules/climate/repository"
	"hawaii-climate/internal/modules/climate/types"
	"hawaii-climate/internal/seed"
)

var _ ClimateService = (*Service)(nil)

type mockRepo struct {
	mostRecent    string
	mostRecentErr error
	precip        []types.DatePrecipitation
	precipErr     error
	precipSince   string
	stations      []string
	stationsErr   error
	active        types.StationActivity
	activeErr     error
	tobs          []types.TemperatureObservation
	tobsErr       error
	tobsStation   string
	tobsSince     string
	summary       types.TemperatureSummary
	summaryErr    error
	summaryArgs   []string
}

func (m *mockRepo) GetMostRecentDate(context.Context) (string, error) {
	return m.mostRecent, m.mostRecentErr
}

func (m *mockRepo) GetPrecipitationSince(_ context.Context, since string) ([]types.DatePrecipitation, error) {
	m.precipSince = since
	return m.precip, m.precipErr
}

func (m *mockRepo) GetStationIDs(context.Context) ([]string, error) {
	return m.stations, m.stationsErr
}

func (m *mockRepo) GetMostActiveStation(context.Context) (types.StationActivity, error) {
	return m.active, m.activeErr
}

func (m *mockRepo) GetStationTobsSince(_ context.Context, station string, since string) ([]types.TemperatureObservation, error) {
	m.tobsStation, m.tobsSince = station, since
	return m.tobs, m.tobsErr
}

func (m *mockRepo) GetTobsSummaryFrom(_ context.Context, start string) (types.TemperatureSummary, error) {
	m.summaryArgs = []string{start}
	return m.summary, m.summaryErr
}

func (m *mockRepo) GetTobsSummaryBetween(_ context.Context, start string, end string) (types.TemperatureSummary, error) {
	m.summaryArgs = []string{start, end}
	return m.summary, m.summaryErr
}

func f(v float64) *float64 { return &v }

func TestWindowStart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2017-08-23", want: "2016-08-23"},
		// 365 days back across a leap day lands one calendar day later.
		{in: "2016-08-23", want: "2015-08-24"},
		{in: "2000-03-01", want: "1999-03-02"},
	}
	for _, tt := range tests {
		got, err := WindowStart(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "WindowStart(%q)", tt.in)
	}

	_, err := WindowStart("23/08/2017")
	assert.Error(t, err)
}

func TestPrecipitation(t *testing.T) {
	ctx := context.Background()

	t.Run("last row per date wins", func(t *testing.T) {
		repo := &mockRepo{
			mostRecent: "2017-08-23",
			precip: []types.DatePrecipitation{
				{Date: "2017-08-22", Prcp: f(0.5)},
				{Date: "2017-08-23", Prcp: f(0.0)},
				{Date: "2017-08-23", Prcp: nil},
				{Date: "2017-08-23", Prcp: f(0.45)},
				{Date: "2016-12-25", Prcp: nil},
			},
		}
		got, err := NewService(repo).Precipitation(ctx)
		require.NoError(t, err)

		assert.Equal(t, "2016-08-23", repo.precipSince)
		require.Len(t, got, 3)
		assert.Equal(t, 0.45, *got["2017-08-23"])
		assert.Equal(t, 0.5, *got["2017-08-22"])
		v, ok := got["2016-12-25"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("empty store", func(t *testing.T) {
		got, err := NewService(&mockRepo{mostRecentErr: repository.ErrNoMeasurements}).Precipitation(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unparseable max date", func(t *testing.T) {
		_, err := NewService(&mockRepo{mostRecent: "yesterday"}).Precipitation(ctx)
		assert.Error(t, err)
	})

	t.Run("query failure", func(t *testing.T) {
		boom := errors.New("disk I/O error")
		_, err := NewService(&mockRepo{mostRecent: "2017-08-23", precipErr: boom}).Precipitation(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestStations(t *testing.T) {
	ctx := context.Background()

	got, err := NewService(&mockRepo{stations: []string{"USC00519397", "USC00513117"}}).Stations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"USC00519397", "USC00513117"}, got.Stations)

	got, err = NewService(&mockRepo{}).Stations(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got.Stations)

	_, err = NewService(&mockRepo{stationsErr: errors.New("db error")}).Stations(ctx)
	assert.Error(t, err)
}

func TestTemperatureObservations(t *testing.T) {
	ctx := context.Background()

	t.Run("uses most active station and window", func(t *testing.T) {
		repo := &mockRepo{
			mostRecent: "2017-08-23",
			active:     types.StationActivity{Station: "USC00519281", Observations: 2772},
			tobs:       []types.TemperatureObservation{{Date: "2017-08-18", Tobs: f(79)}},
		}
		got, err := NewService(repo).TemperatureObservations(ctx)
		require.NoError(t, err)
		assert.Equal(t, "USC00519281", repo.tobsStation)
		assert.Equal(t, "2016-08-23", repo.tobsSince)
		assert.Len(t, got, 1)
	})

	t.Run("empty store", func(t *testing.T) {
		repo := &mockRepo{
			mostRecentErr: repository.ErrNoMeasurements,
			activeErr:     repository.ErrNoMeasurements,
		}
		got, err := NewService(repo).TemperatureObservations(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("sub-query failure", func(t *testing.T) {
		boom := errors.New("locked")
		_, err := NewService(&mockRepo{mostRecent: "2017-08-23", activeErr: boom}).TemperatureObservations(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil rows become empty list", func(t *testing.T) {
		repo := &mockRepo{mostRecent: "2017-08-23", active: types.StationActivity{Station: "X"}}
		got, err := NewService(repo).TemperatureObservations(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}

func TestSummaries(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{summary: types.TemperatureSummary{TMIN: f(58), TAVG: f(74.5), TMAX: f(87)}}
	svc := NewService(repo)

	got, err := svc.SummaryFrom(ctx, "2016-08-23")
	require.NoError(t, err)
	assert.Equal(t, []string{"2016-08-23"}, repo.summaryArgs)
	assert.Equal(t, 74.5, *got.TAVG)

	_, err = svc.SummaryBetween(ctx, "2016-08-23", "2017-08-23")
	require.NoError(t, err)
	assert.Equal(t, []string{"2016-08-23", "2017-08-23"}, repo.summaryArgs)

	repo.summaryErr = errors.New("db error")
	_, err = svc.SummaryBetween(ctx, "a", "b")
	assert.Error(t, err)
}

// The remaining tests run the service over the seed fixture.

func fixtureService(t *testing.T) *Service {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, seed.Run(context.Background(), conn))
	return NewService(repository.NewRepository(conn))
}

func TestFixture_precipitationWindow(t *testing.T) {
	got, err := fixtureService(t).Precipitation(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 8)
	for date := range got {
		assert.GreaterOrEqual(t, date, "2016-08-23")
		assert.LessOrEqual(t, date, "2017-08-23")
	}
	// 2016-08-23 has three rows; the last inserted one is kept.
	assert.Equal(t, 0.15, *got["2016-08-23"])
	assert.Nil(t, got["2016-12-25"])
}

func TestFixture_tobsFromMostActiveStation(t *testing.T) {
	got, err := fixtureService(t).TemperatureObservations(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 6)
	for _, o := range got {
		assert.GreaterOrEqual(t, o.Date, "2016-08-23")
	}
}

func TestFixture_idempotentJSON(t *testing.T) {
	svc := fixtureService(t)
	ctx := context.Background()

	first, err := svc.Precipitation(ctx)
	require.NoError(t, err)
	second, err := svc.Precipitation(ctx)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
