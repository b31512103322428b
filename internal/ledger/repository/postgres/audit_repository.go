package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
)

type AuditRepository struct {
	db DB
}

func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) RecordLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, ip_address, username, success, user_agent, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, attempt.ID, attempt.IPAddress, attempt.Username, attempt.Success, attempt.UserAgent, attempt.AttemptedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

const attemptColumns = `id, ip_address, username, success, user_agent, attempted_at`

func (r *AuditRepository) RecentFailures(ctx context.Context, limit int) ([]domain.LoginAttempt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+attemptColumns+` FROM login_attempts
		WHERE success = FALSE ORDER BY attempted_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, mapError(err)
	}
	return collectAttempts(rows)
}

func (r *AuditRepository) ListAttempts(ctx context.Context, limit, offset int) ([]domain.LoginAttempt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+attemptColumns+` FROM login_attempts
		ORDER BY attempted_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	return collectAttempts(rows)
}

func (r *AuditRepository) SuspiciousIPs(ctx context.Context, since time.Time, threshold int) ([]domain.SuspiciousIP, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ip_address, COUNT(*) AS attempt_count
		FROM login_attempts
		WHERE success = FALSE AND attempted_at >= $1
		GROUP BY ip_address
		HAVING COUNT(*) >= $2
		ORDER BY attempt_count DESC
	`, since, threshold)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ips []domain.SuspiciousIP
	for rows.Next() {
		var s domain.SuspiciousIP
		if err := rows.Scan(&s.IPAddress, &s.AttemptCount); err != nil {
			return nil, mapError(err)
		}
		ips = append(ips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return ips, nil
}

func collectAttempts(rows pgx.Rows) ([]domain.LoginAttempt, error) {
	defer rows.Close()

	var attempts []domain.LoginAttempt
	for rows.Next() {
		var a domain.LoginAttempt
		if err := rows.Scan(&a.ID, &a.IPAddress, &a.Username, &a.Success, &a.UserAgent, &a.AttemptedAt); err != nil {
			return nil, mapError(err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return attempts, nil
}
