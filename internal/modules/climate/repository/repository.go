package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log/slog"

	"hawaii-climate/internal/modules/climate/types"
)

//go:embed sql/get-most-recent-date.sql
var getMostRecentDateSQL string

//go:embed sql/get-precipitation-since.sql
var getPrecipitationSinceSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-station-tobs-since.sql
var getStationTobsSinceSQL string

//go:embed sql/get-tobs-summary-from.sql
var getTobsSummaryFromSQL string

//go:embed sql/get-tobs-summary-between.sql
var getTobsSummaryBetweenSQL string

// ErrNoMeasurements is returned when a lookup needs at least one measurement row.
var ErrNoMeasurements = errors.New("no measurements")

type ClimateRepository interface {
	// GetMostRecentDate returns max(measurement.date) or ErrNoMeasurements.
	GetMostRecentDate(ctx context.Context) (string, error)
	GetPrecipitationSince(ctx context.Context, since string) ([]types.DatePrecipitation, error)
	GetStationIDs(ctx context.Context) ([]string, error)
	// GetMostActiveStation returns the first station by descending row count; ties are unspecified.
	GetMostActiveStation(ctx context.Context) (types.StationActivity, error)
	GetStationTobsSince(ctx context.Context, station string, since string) ([]types.TemperatureObservation, error)
	GetTobsSummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error)
	GetTobsSummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetMostRecentDate(ctx context.Context) (string, error) {
	var date sql.NullString
	if err := r.db.QueryRowContext(ctx, getMostRecentDateSQL).Scan(&date); err != nil {
		return "", err
	}
	if !date.Valid {
		return "", ErrNoMeasurements
	}
	return date.String, nil
}

func (r *repositoryImpl) GetPrecipitationSince(ctx context.Context, since string) ([]types.DatePrecipitation, error) {
	rows, err := r.db.QueryContext(ctx, getPrecipitationSinceSQL, since)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close precipitation rows", "error", err)
		}
	}()
	var out []types.DatePrecipitation
	for rows.Next() {
		var (
			rec  types.DatePrecipitation
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&rec.Date, &prcp); err != nil {
			return nil, err
		}
		rec.Prcp = floatPtr(prcp)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetStationIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetMostActiveStation(ctx context.Context) (types.StationActivity, error) {
	var a types.StationActivity
	err := r.db.QueryRowContext(ctx, getMostActiveStationSQL).Scan(&a.Station, &a.Observations)
	if errors.Is(err, sql.ErrNoRows) {
		return types.StationActivity{}, ErrNoMeasurements
	}
	return a, err
}

func (r *repositoryImpl) GetStationTobsSince(ctx context.Context, station string, since string) ([]types.TemperatureObservation, error) {
	rows, err := r.db.QueryContext(ctx, getStationTobsSinceSQL, since, station)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close tobs rows", "error", err)
		}
	}()
	out := []types.TemperatureObservation{}
	for rows.Next() {
		var (
			rec  types.TemperatureObservation
			tobs sql.NullFloat64
		)
		if err := rows.Scan(&rec.Date, &tobs); err != nil {
			return nil, err
		}
		rec.Tobs = floatPtr(tobs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTobsSummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error) {
	return scanSummary(r.db.QueryRowContext(ctx, getTobsSummaryFromSQL, start))
}

func (r *repositoryImpl) GetTobsSummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error) {
	return scanSummary(r.db.QueryRowContext(ctx, getTobsSummaryBetweenSQL, start, end))
}

// scanSummary reads a MIN/AVG/MAX row. SQLite yields NULLs for an empty set.
func scanSummary(row *sql.Row) (types.TemperatureSummary, error) {
	var lo, avg, hi sql.NullFloat64
	if err := row.Scan(&lo, &avg, &hi); err != nil {
		return types.TemperatureSummary{}, err
	}
	return types.TemperatureSummary{
		TMIN: floatPtr(lo),
		TAVG: floatPtr(avg),
		TMAX: floatPtr(hi),
	}, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
