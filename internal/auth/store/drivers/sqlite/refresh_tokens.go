package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
)

type refreshTokensRepo struct {
	db dbtx
}

const refreshTokenColumns = `id, user_id, token_hash, created_by_ip,
	expires_at, revoked_at, revoked_by_ip, replaced_by_hash, created_at`

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, created_by_ip,
			expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.CreatedByIP, t.ExpiresAt, t.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = ?`,
		hash)
	return scanRefreshToken(row)
}

// RevokeRefreshToken is the compare-and-swap at the heart of rotation: the
// WHERE clause only matches an unrevoked row, so of two concurrent callers
// exactly one updates it. The loser gets ErrStale and the caller treats the
// presentation as a replay.
func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash, revokedByIP, replacedByHash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = ?, revoked_by_ip = ?, replaced_by_hash = ?
		WHERE token_hash = ? AND revoked_at IS NULL`,
		at, revokedByIP, replacedByHash, hash,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// No row matched: either the token does not exist or it is already
	// revoked. Distinguish the two for the caller.
	var id string
	err = r.db.QueryRowContext(ctx,
		`SELECT id FROM refresh_tokens WHERE token_hash = ?`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return store.ErrStale
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, before)
	return err
}

func scanRefreshToken(row rowScanner) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	var revoked sql.NullTime
	err := row.Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.CreatedByIP,
		&t.ExpiresAt, &revoked, &t.RevokedByIP, &t.ReplacedByHash, &t.CreatedAt,
	)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.RevokedAt = mapNullTimePtr(revoked)
	return t, nil
}
