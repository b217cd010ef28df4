package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestMySQL(t *testing.T) *MySQL {
	t.Helper()
	dsn := os.Getenv("SBDGATE_MYSQL_DSN")
	if dsn == "" {
		t.Skip("SBDGATE_MYSQL_DSN not set")
	}
	db, err := OpenMySQL(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMySQLRoundtrip(t *testing.T) {
	db := openTestMySQL(t)

	imei := "300234063904190"
	message := testMessage(t, imei, time.Date(2021, 9, 8, 7, 6, 5, 0, time.UTC))
	require.NoError(t, db.Store(message))

	messages, err := db.MessagesFromIMEI(imei)
	require.NoError(t, err)
	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, message, last)

	all, err := db.Messages()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), len(messages))
}
