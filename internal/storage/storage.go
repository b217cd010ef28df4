// Package storage persists mobile-originated messages and lists them back in
// chronological order. Backends share one interface so the ingestion server
// and the CLI are indifferent to where messages land.
package storage

import (
	"example.com/sbdgate/internal/sbd"
)

// Storage stores and retrieves mobile-originated messages. Implementations
// are not required to be safe for concurrent use; callers that share a
// backend across goroutines serialize access themselves.
type Storage interface {
	// Store persists one message.
	Store(m *sbd.Message) error
	// Messages returns every stored message, oldest session first.
	Messages() ([]*sbd.Message, error)
	// MessagesFromIMEI returns the stored messages for one device, oldest
	// session first.
	MessagesFromIMEI(imei string) ([]*sbd.Message, error)
}

// FilterIMEI keeps the messages whose header IMEI matches imei, preserving
// order. Backends without a native per-device query build on it.
func FilterIMEI(messages []*sbd.Message, imei string) []*sbd.Message {
	matched := make([]*sbd.Message, 0, len(messages))
	for _, m := range messages {
		if m.IMEI() == imei {
			matched = append(matched, m)
		}
	}
	return matched
}
