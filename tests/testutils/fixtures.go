package testutils

import (
	"database/sql"
	"testing"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/models"

	"github.com/stretchr/testify/require"
)

func StringPtr(value string) *string {
	return &value
}

func CreateTestLoginRecord(name, email, ssid, mac string) *models.LoginRecord {
	record := &models.LoginRecord{
		Name:  StringPtr(name),
		Email: StringPtr(email),
	}
	if ssid != "" {
		record.SSID = StringPtr(ssid)
	}
	if mac != "" {
		record.ClientMAC = StringPtr(mac)
	}
	return record
}

func CreateTestLoginRequest(name, email, ssid string) *models.LoginRequest {
	req := &models.LoginRequest{
		Name:        StringPtr(name),
		Email:       StringPtr(email),
		AcceptTerms: true,
	}
	if ssid != "" {
		req.SSID = StringPtr(ssid)
	}
	return req
}

// InsertLoginAt writes a row with an explicit created_at, bypassing the
// repository's store-assigned timestamp. Used for retention tests.
func InsertLoginAt(t *testing.T, testDB *sql.DB, name, ssid string, createdAt time.Time) {
	const layout = "2006-01-02 15:04:05.000000000"
	_, err := testDB.Exec(
		`INSERT INTO client_logins (name, ssid, created_at) VALUES (?, ?, ?)`,
		name, ssid, createdAt.UTC().Format(layout),
	)
	require.NoError(t, err)
}
