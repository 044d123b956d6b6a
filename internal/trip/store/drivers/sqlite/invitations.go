package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/asinan007/tripping/internal/trip/domain"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, trip_id, inviter_id, invitee_email, message, status, token_hash,
	created_at, responded_at`

func scanInvitation(row interface{ Scan(...any) error }) (domain.Invitation, error) {
	var (
		inv         domain.Invitation
		status      string
		createdAt   int64
		respondedAt sql.NullInt64
	)
	err := row.Scan(&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.Message, &status,
		&inv.TokenHash, &createdAt, &respondedAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Status = domain.InvitationStatus(status)
	inv.CreatedAt = fromMillis(createdAt)
	inv.RespondedAt = fromNullMillis(respondedAt)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TripID, inv.InviterID, inv.InviteeEmail, inv.Message, string(inv.Status),
		inv.TokenHash, toMillis(inv.CreatedAt), toNullMillis(inv.RespondedAt),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitation(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	return scanInvitation(row)
}

func (r *invitationsRepo) FindActiveInvitation(ctx context.Context, tripID, email string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE trip_id = ? AND invitee_email = ? AND status IN ('pending', 'accepted')
		LIMIT 1`, tripID, email)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListTripInvitations(ctx context.Context, tripID string) ([]domain.Invitation, error) {
	return r.list(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE trip_id = ?
		ORDER BY created_at, id`, tripID)
}

func (r *invitationsRepo) ListPendingInvitations(ctx context.Context, email string) ([]domain.Invitation, error) {
	return r.list(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE invitee_email = ? AND status = 'pending'
		  AND trip_id IN (SELECT id FROM trips)
		ORDER BY created_at DESC, id DESC`, email)
}

func (r *invitationsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) ResolveInvitation(
	ctx context.Context,
	id string,
	status domain.InvitationStatus,
	now time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = ?, responded_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(status), toMillis(now), id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}
