package storage

import (
	"bytes"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"example.com/sbdgate/internal/sbd"
)

// MySQL stores the raw wire bytes of each message in a single table, one row
// per session. Listing decodes the rows back; the wire format stays the
// source of truth so the schema never chases the codec.
type MySQL struct {
	db *sql.DB
}

const mysqlSchema = `CREATE TABLE IF NOT EXISTS messages (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	imei CHAR(15) NOT NULL,
	session_at DATETIME NOT NULL,
	raw VARBINARY(2048) NOT NULL,
	INDEX idx_imei (imei)
)`

// OpenMySQL connects with a go-sql-driver DSN, verifies the connection and
// creates the messages table if it is missing.
func OpenMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	if _, err := db.Exec(mysqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create messages table: %w", err)
	}
	return &MySQL{db: db}, nil
}

// Close releases the connection pool.
func (s *MySQL) Close() error {
	return s.db.Close()
}

// Store inserts the message's wire encoding.
func (s *MySQL) Store(m *sbd.Message) error {
	var buf bytes.Buffer
	if err := m.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO messages (imei, session_at, raw) VALUES (?, ?, ?)`,
		m.IMEI(), m.Header().TimeOfSession.UTC(), buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Messages decodes every stored row, oldest session first.
func (s *MySQL) Messages() ([]*sbd.Message, error) {
	return s.query(`SELECT raw FROM messages ORDER BY session_at, id`)
}

// MessagesFromIMEI decodes the rows for one device, oldest session first.
func (s *MySQL) MessagesFromIMEI(imei string) ([]*sbd.Message, error) {
	return s.query(`SELECT raw FROM messages WHERE imei = ? ORDER BY session_at, id`, imei)
}

func (s *MySQL) query(stmt string, args ...any) ([]*sbd.Message, error) {
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()
	var messages []*sbd.Message
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		message, err := sbd.ReadMessage(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode stored message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return messages, nil
}
