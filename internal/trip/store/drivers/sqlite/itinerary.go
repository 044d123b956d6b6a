package sqlite

import (
	"context"
	"database/sql"

	"github.com/asinan007/tripping/internal/trip/domain"
)

type itineraryRepo struct {
	db dbtx
}

func (r *itineraryRepo) AppendEntry(ctx context.Context, e domain.ItineraryEntry) error {
	var cost sql.NullFloat64
	if e.Cost != nil {
		cost = sql.NullFloat64{Float64: *e.Cost, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO itinerary_entries (
			id, trip_id, name, description, category, duration, cost, location, day, time, added_by, added_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TripID, e.Name, e.Description, e.Category, e.Duration, cost, e.Location, e.Day, e.Time,
		e.AddedBy, toMillis(e.AddedAt),
	)
	return mapConstraint(err)
}

func (r *itineraryRepo) ListEntries(ctx context.Context, tripID string) ([]domain.ItineraryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trip_id, name, description, category, duration, cost, location, day, time, added_by, added_at
		FROM itinerary_entries
		WHERE trip_id = ?
		ORDER BY seq`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.ItineraryEntry{}
	for rows.Next() {
		var (
			e       domain.ItineraryEntry
			cost    sql.NullFloat64
			addedAt int64
		)
		err := rows.Scan(&e.ID, &e.TripID, &e.Name, &e.Description, &e.Category, &e.Duration, &cost,
			&e.Location, &e.Day, &e.Time, &e.AddedBy, &addedAt)
		if err != nil {
			return nil, err
		}
		if cost.Valid {
			c := cost.Float64
			e.Cost = &c
		}
		e.AddedAt = fromMillis(addedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
