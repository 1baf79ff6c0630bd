package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"hawaii-climate/internal/modules/climate/repository"
	"hawaii-climate/internal/modules/climate/types"
)

const (
	DateLayout = "2006-01-02"
	windowDays = 365
)

type ClimateService interface {
	Precipitation(ctx context.Context) (types.Precipitation, error)
	Stations(ctx context.Context) (types.StationList, error)
	TemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error)
	SummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error)
	SummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error)
}

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// WindowStart returns the first date of the year-long window ending at
// mostRecent: mostRecent minus 365 days, as YYYY-MM-DD.
func WindowStart(mostRecent string) (string, error) {
	t, err := time.Parse(DateLayout, mostRecent)
	if err != nil {
		return "", fmt.Errorf("parse most recent date %q: %w", mostRecent, err)
	}
	return t.AddDate(0, 0, -windowDays).Format(DateLayout), nil
}

// Precipitation returns prcp per date for the last year of data. Dates
// reported by several stations keep the value of the last row read.
func (s *Service) Precipitation(ctx context.Context) (types.Precipitation, error) {
	out := types.Precipitation{}

	mostRecent, err := s.repository.GetMostRecentDate(ctx)
	if errors.Is(err, repository.ErrNoMeasurements) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("most recent date: %w", err)
	}
	since, err := WindowStart(mostRecent)
	if err != nil {
		return nil, err
	}

	rows, err := s.repository.GetPrecipitationSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("precipitation since %s: %w", since, err)
	}
	for _, r := range rows {
		out[r.Date] = r.Prcp
	}
	if len(out) < len(rows) {
		slog.Debug("precipitation collapsed duplicate dates", "rows", len(rows), "dates", len(out))
	}
	return out, nil
}

func (s *Service) Stations(ctx context.Context) (types.StationList, error) {
	ids, err := s.repository.GetStationIDs(ctx)
	if err != nil {
		return types.StationList{}, fmt.Errorf("station ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return types.StationList{Stations: ids}, nil
}

// TemperatureObservations returns the last year of tobs for the station with
// the most measurement rows.
func (s *Service) TemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error) {
	var (
		mostRecent string
		active     types.StationActivity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mostRecent, err = s.repository.GetMostRecentDate(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.repository.GetMostActiveStation(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrNoMeasurements) {
			return []types.TemperatureObservation{}, nil
		}
		return nil, fmt.Errorf("tobs window: %w", err)
	}

	since, err := WindowStart(mostRecent)
	if err != nil {
		return nil, err
	}
	slog.Debug("most active station", "station", active.Station, "observations", active.Observations, "since", since)

	obs, err := s.repository.GetStationTobsSince(ctx, active.Station, since)
	if err != nil {
		return nil, fmt.Errorf("tobs for %s since %s: %w", active.Station, since, err)
	}
	if obs == nil {
		obs = []types.TemperatureObservation{}
	}
	return obs, nil
}

// SummaryFrom aggregates tobs over date >= start. start is compared as a
// string and is not validated.
func (s *Service) SummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error) {
	sum, err := s.repository.GetTobsSummaryFrom(ctx, start)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("tobs summary from %q: %w", start, err)
	}
	return sum, nil
}

// SummaryBetween aggregates tobs over start <= date <= end.
func (s *Service) SummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error) {
	sum, err := s.repository.GetTobsSummaryBetween(ctx, start, end)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("tobs summary %q..%q: %w", start, end, err)
	}
	return sum, nil
}
