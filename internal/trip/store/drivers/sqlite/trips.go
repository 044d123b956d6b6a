package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/internal/trip/store"
)

type tripsRepo struct {
	db dbtx
}

const tripColumns = `id, title, description, destination, start_date, end_date, creator_id,
	share_token, suggestions, created_at, updated_at`

func scanTrip(row interface{ Scan(...any) error }) (domain.Trip, error) {
	var (
		t                    domain.Trip
		start, end           sql.NullInt64
		shareToken           sql.NullString
		suggestions          sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Destination, &start, &end, &t.CreatorID,
		&shareToken, &suggestions, &createdAt, &updatedAt)
	if err != nil {
		return domain.Trip{}, mapNotFound(err)
	}

	t.StartDate = fromNullMillis(start)
	t.EndDate = fromNullMillis(end)
	t.ShareToken = mapNullString(shareToken)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)

	if suggestions.Valid && suggestions.String != "" {
		var b domain.SuggestionBundle
		if err := json.Unmarshal([]byte(suggestions.String), &b); err != nil {
			return domain.Trip{}, fmt.Errorf("decode suggestions of trip %s: %w", t.ID, err)
		}
		t.Suggestions = &b
	}
	return t, nil
}

func (r *tripsRepo) CreateTrip(ctx context.Context, t domain.Trip) error {
	var suggestions sql.NullString
	if t.Suggestions != nil {
		raw, err := json.Marshal(t.Suggestions)
		if err != nil {
			return err
		}
		suggestions = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Destination, toNullMillis(t.StartDate), toNullMillis(t.EndDate),
		t.CreatorID, mapStringNull(t.ShareToken), suggestions, toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, userID := range t.Participants {
		_, err := r.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO trip_participants (trip_id, user_id, joined_at)
			VALUES (?, ?, ?)`,
			t.ID, userID, toMillis(t.CreatedAt),
		)
		if err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *tripsRepo) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	return r.getBy(ctx, `id = ?`, id)
}

func (r *tripsRepo) GetTripByShareToken(ctx context.Context, token string) (domain.Trip, error) {
	if token == "" {
		return domain.Trip{}, store.ErrNotFound
	}
	return r.getBy(ctx, `share_token = ?`, token)
}

func (r *tripsRepo) getBy(ctx context.Context, where string, arg any) (domain.Trip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE `+where, arg)
	t, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, err
	}
	if t.Participants, err = r.participants(ctx, t.ID); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *tripsRepo) participants(ctx context.Context, tripID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM trip_participants
		WHERE trip_id = ?
		ORDER BY joined_at, rowid`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *tripsRepo) ListTripsForUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE id IN (SELECT trip_id FROM trip_participants WHERE user_id = ?)
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Release the connection before loading participants.
	_ = rows.Close()

	for i := range trips {
		if trips[i].Participants, err = r.participants(ctx, trips[i].ID); err != nil {
			return nil, err
		}
	}
	return trips, nil
}

func (r *tripsRepo) UpdateTripDetails(ctx context.Context, id string, d domain.TripDetails, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET title = ?, description = ?, destination = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`,
		d.Title, d.Description, d.Destination, toNullMillis(d.StartDate), toNullMillis(d.EndDate),
		toMillis(now), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *tripsRepo) DeleteTrip(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *tripsRepo) AddParticipant(ctx context.Context, tripID, userID string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO trip_participants (trip_id, user_id, joined_at)
		VALUES (?, ?, ?)`,
		tripID, userID, toMillis(now),
	)
	if err != nil {
		return false, mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `UPDATE trips SET updated_at = ? WHERE id = ?`, toMillis(now), tripID)
	return true, err
}

func (r *tripsRepo) SetShareTokenIfAbsent(ctx context.Context, tripID, token string, now time.Time) (string, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE trips SET share_token = ?, updated_at = ?
		WHERE id = ? AND share_token IS NULL`,
		token, toMillis(now), tripID,
	)
	if err != nil {
		return "", mapConstraint(err)
	}

	// Whoever won the conditional update, the stored token is the answer.
	var stored sql.NullString
	err = r.db.QueryRowContext(ctx, `SELECT share_token FROM trips WHERE id = ?`, tripID).Scan(&stored)
	if err != nil {
		return "", mapNotFound(err)
	}
	if !stored.Valid {
		return "", fmt.Errorf("share token of trip %s not persisted", tripID)
	}
	return stored.String, nil
}

func (r *tripsRepo) SetSuggestions(ctx context.Context, tripID string, b domain.SuggestionBundle, now time.Time) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE trips SET suggestions = ?, updated_at = ? WHERE id = ?`,
		string(raw), toMillis(now), tripID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
