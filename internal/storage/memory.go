package storage

import (
	"sync"

	"example.com/sbdgate/internal/sbd"
)

// Memory keeps messages in a slice. Unlike the other backends it is safe for
// concurrent use on its own, which makes it the storage of choice in tests.
type Memory struct {
	mu       sync.Mutex
	messages []*sbd.Message
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// Store appends the message.
func (m *Memory) Store(message *sbd.Message) error {
	m.mu.Lock()
	m.messages = append(m.messages, message)
	m.mu.Unlock()
	return nil
}

// Messages returns a sorted copy of the stored messages.
func (m *Memory) Messages() ([]*sbd.Message, error) {
	m.mu.Lock()
	messages := make([]*sbd.Message, len(m.messages))
	copy(messages, m.messages)
	m.mu.Unlock()
	sbd.SortByTimeOfSession(messages)
	return messages, nil
}

// MessagesFromIMEI returns the sorted messages for one device.
func (m *Memory) MessagesFromIMEI(imei string) ([]*sbd.Message, error) {
	messages, err := m.Messages()
	if err != nil {
		return nil, err
	}
	return FilterIMEI(messages, imei), nil
}

// Len reports how many messages are stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}
