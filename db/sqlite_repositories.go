package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/models"
)

// sqliteTimeLayout is a fixed-width UTC layout so that lexicographic
// comparison of stored timestamps matches chronological order.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// SQLiteLoginRepository implements the LoginRepository interface for SQLite
type SQLiteLoginRepository struct {
	db *sql.DB
}

// NewSQLiteLoginRepository creates a new SQLiteLoginRepository
func NewSQLiteLoginRepository(db *sql.DB) *SQLiteLoginRepository {
	return &SQLiteLoginRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteLoginRepository) Close() error {
	return r.db.Close()
}

// Create appends a login record. The store assigns id and createdAt; the
// caller's CreatedAt value is ignored.
func (r *SQLiteLoginRepository) Create(ctx context.Context, record *models.LoginRecord) (*models.LoginRecord, error) {
	record.CreatedAt = time.Now().UTC()

	query := `INSERT INTO client_logins (name, email, phone, ssid, client_mac, ap_mac, ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		record.Name, record.Email, record.Phone, record.SSID,
		record.ClientMAC, record.APMAC, record.IP, record.UserAgent,
		record.CreatedAt.Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting login record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading inserted login id: %w", err)
	}
	record.ID = id

	return record, nil
}

// FindSince returns records with createdAt >= cutoff, newest first. An empty
// ssid matches all SSIDs; otherwise the match is exact.
func (r *SQLiteLoginRepository) FindSince(ctx context.Context, cutoff time.Time, ssid string) ([]*models.LoginRecord, error) {
	query := `SELECT id, name, email, phone, ssid, client_mac, ap_mac, ip, user_agent, created_at
		FROM client_logins WHERE created_at >= ?`
	args := []interface{}{cutoff.UTC().Format(sqliteTimeLayout)}
	if ssid != "" {
		query += ` AND ssid = ?`
		args = append(args, ssid)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying login records: %w", err)
	}
	defer rows.Close()

	var records []*models.LoginRecord
	for rows.Next() {
		record, err := scanLoginRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating login records: %w", err)
	}

	return records, nil
}

// DeleteOlderThan removes records with createdAt < cutoff
func (r *SQLiteLoginRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM client_logins WHERE created_at < ?`
	result, err := r.db.ExecContext(ctx, query, cutoff.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("error deleting expired login records: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting deleted login records: %w", err)
	}
	return deleted, nil
}

func scanLoginRecord(rows *sql.Rows) (*models.LoginRecord, error) {
	var record models.LoginRecord
	var name, email, phone, ssid, clientMac, apMac, ip, userAgent sql.NullString
	var createdAtStr string

	err := rows.Scan(&record.ID, &name, &email, &phone, &ssid, &clientMac, &apMac, &ip, &userAgent, &createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("error scanning login record: %w", err)
	}

	if name.Valid {
		record.Name = &name.String
	}
	if email.Valid {
		record.Email = &email.String
	}
	if phone.Valid {
		record.Phone = &phone.String
	}
	if ssid.Valid {
		record.SSID = &ssid.String
	}
	if clientMac.Valid {
		record.ClientMAC = &clientMac.String
	}
	if apMac.Valid {
		record.APMAC = &apMac.String
	}
	if ip.Valid {
		record.IP = &ip.String
	}
	if userAgent.Valid {
		record.UserAgent = &userAgent.String
	}

	createdAt, err := time.ParseInLocation(sqliteTimeLayout, createdAtStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("error parsing login created_at %q: %w", createdAtStr, err)
	}
	record.CreatedAt = createdAt

	return &record, nil
}
