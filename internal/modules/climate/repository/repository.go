package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharkins95/sqlalchemy-challenge/internal/db"
	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/types"
)

//go:embed sql/list-precipitation.sql
var listPrecipitationSQL string

//go:embed sql/list-station-ids.sql
var listStationIDsSQL string

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

//go:embed sql/list-station-tobs-since.sql
var listStationTobsSinceSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-between.sql
var getTemperatureStatsBetweenSQL string

// DateLayout is the on-disk format of measurement.date.
const DateLayout = time.DateOnly

// Tables lists the tables and columns the queries above read.
func Tables() []db.Table {
	return []db.Table{
		{Name: "station", Columns: []string{"station", "name", "latitude", "longitude", "elevation"}},
		{Name: "measurement", Columns: []string{"station", "date", "prcp", "tobs"}},
	}
}

type ClimateRepository interface {
	GetPrecipitation(ctx context.Context) ([]types.Measurement, error)
	GetStationIDs(ctx context.Context) ([]string, error)
	GetRecentTemperatureObservations(ctx context.Context, stationID string, windowDays int) ([]types.TemperatureObservation, error)
	GetTemperatureStatsFrom(ctx context.Context, start string) (types.TemperatureStats, error)
	GetTemperatureStatsBetween(ctx context.Context, start, end string) (types.TemperatureStats, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

// withConn pins one pool connection for the duration of fn and always
// returns it, including when fn fails.
func (r *repositoryImpl) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release connection", "error", err)
		}
	}()
	return fn(conn)
}

// GetPrecipitation returns one entry per measurement row with Date and Prcp set.
func (r *repositoryImpl) GetPrecipitation(ctx context.Context) ([]types.Measurement, error) {
	out := []types.Measurement{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, listPrecipitationSQL)
		if err != nil {
			return err
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close precipitation rows", "error", err)
			}
		}()
		for rows.Next() {
			var m types.Measurement
			var prcp sql.NullFloat64
			if err := rows.Scan(&m.Date, &prcp); err != nil {
				return err
			}
			m.Prcp = nullFloat(prcp)
			out = append(out, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list precipitation: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) GetStationIDs(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, listStationIDsSQL)
		if err != nil {
			return err
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close station rows", "error", err)
			}
		}()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			out = append(out, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return out, nil
}

// GetRecentTemperatureObservations returns stationID's rows dated on or after
// (latest date in the dataset - windowDays). Both lookups share one connection.
func (r *repositoryImpl) GetRecentTemperatureObservations(ctx context.Context, stationID string, windowDays int) ([]types.TemperatureObservation, error) {
	out := []types.TemperatureObservation{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		var latest sql.NullString
		if err := conn.QueryRowContext(ctx, getLatestDateSQL).Scan(&latest); err != nil {
			return fmt.Errorf("latest date: %w", err)
		}
		if !latest.Valid {
			return nil
		}
		cutoff, err := CutoffDate(latest.String, windowDays)
		if err != nil {
			return err
		}

		rows, err := conn.QueryContext(ctx, listStationTobsSinceSQL, stationID, cutoff)
		if err != nil {
			return err
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close tobs rows", "error", err)
			}
		}()
		for rows.Next() {
			var o types.TemperatureObservation
			if err := rows.Scan(&o.StationID, &o.Date, &o.Tobs); err != nil {
				return err
			}
			out = append(out, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list temperature observations for %s: %w", stationID, err)
	}
	return out, nil
}

func (r *repositoryImpl) GetTemperatureStatsFrom(ctx context.Context, start string) (types.TemperatureStats, error) {
	stats, err := r.temperatureStats(ctx, getTemperatureStatsFromSQL, start)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("temperature stats from %q: %w", start, err)
	}
	return stats, nil
}

func (r *repositoryImpl) GetTemperatureStatsBetween(ctx context.Context, start, end string) (types.TemperatureStats, error) {
	stats, err := r.temperatureStats(ctx, getTemperatureStatsBetweenSQL, start, end)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("temperature stats %q..%q: %w", start, end, err)
	}
	return stats, nil
}

// temperatureStats runs a MIN/MAX/AVG query. Aggregates over no rows come back
// as NULL and map to nil fields.
func (r *repositoryImpl) temperatureStats(ctx context.Context, query string, args ...any) (types.TemperatureStats, error) {
	var stats types.TemperatureStats
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		var lo, hi, avg sql.NullFloat64
		if err := conn.QueryRowContext(ctx, query, args...).Scan(&lo, &hi, &avg); err != nil {
			return err
		}
		stats = types.TemperatureStats{
			Tmin: nullFloat(lo),
			Tmax: nullFloat(hi),
			Tavg: nullFloat(avg),
		}
		return nil
	})
	return stats, err
}

// CutoffDate returns latest minus days, both in DateLayout.
func CutoffDate(latest string, days int) (string, error) {
	t, err := time.Parse(DateLayout, latest)
	if err != nil {
		return "", fmt.Errorf("parse latest date %q: %w", latest, err)
	}
	return t.AddDate(0, 0, -days).Format(DateLayout), nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
