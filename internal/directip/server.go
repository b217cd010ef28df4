// Package directip runs the TCP ingestion side of the Iridium DirectIP
// protocol: the gateway connects, sends one mobile-originated message and
// closes. Each connection is handled on its own goroutine; the storage
// backend is serialized behind a mutex so any Storage implementation works.
package directip

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"example.com/sbdgate/internal/sbd"
	"example.com/sbdgate/internal/storage"
)

// Options configures server creation.
type Options struct {
	// Addr is the TCP listen address, for example ":10800".
	Addr string
	// Storage receives every decoded message.
	Storage storage.Storage
	// Logger receives per-connection structured logs. Required.
	Logger logrus.FieldLogger
	// ReadTimeout bounds how long a connected gateway may take to deliver
	// its message. Zero means no deadline.
	ReadTimeout time.Duration
	// Metrics, when set, counts connection outcomes.
	Metrics *Metrics
}

// Server accepts DirectIP connections and persists the messages they carry.
type Server struct {
	opts     Options
	listener net.Listener

	mu sync.Mutex // serializes opts.Storage.Store
	wg sync.WaitGroup
}

// NewServer validates the options. Bind must be called before ServeForever.
func NewServer(opts Options) (*Server, error) {
	if opts.Storage == nil {
		return nil, errors.New("directip: storage is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("directip: logger is required")
	}
	if opts.Addr == "" {
		opts.Addr = ":10800"
	}
	return &Server{opts: opts}, nil
}

// Bind opens the listening socket.
func (s *Server) Bind() error {
	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("directip: listen %s: %w", s.opts.Addr, err)
	}
	s.listener = listener
	s.opts.Logger.WithField("addr", listener.Addr().String()).Info("directip server listening")
	return nil
}

// Addr returns the bound address, useful when Addr was ":0".
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ServeForever accepts connections until Close is called. A failed accept is
// logged and the loop continues; only a closed listener ends it, with a nil
// error.
func (s *Server) ServeForever() error {
	if s.listener == nil {
		return errors.New("directip: server is not bound")
	}
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.opts.Logger.WithError(err).Error("accept failed")
			continue
		}
		if s.opts.Metrics != nil {
			s.opts.Metrics.IncAccepted()
		}
		s.wg.Add(1)
		go s.handle(conn)
	}
}

// Close stops the listener. In-flight connections finish before ServeForever
// returns.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log := s.opts.Logger.WithField("peer", conn.RemoteAddr().String())
	if s.opts.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil {
			log.WithError(err).Error("set read deadline")
			s.fail()
			return
		}
	}

	message, err := sbd.ReadMessage(conn)
	if err != nil {
		log.WithError(err).Error("decode message")
		s.fail()
		return
	}

	s.mu.Lock()
	err = s.opts.Storage.Store(message)
	s.mu.Unlock()
	if err != nil {
		log.WithError(err).Error("store message")
		s.fail()
		return
	}

	if s.opts.Metrics != nil {
		s.opts.Metrics.IncStored()
	}
	log.WithFields(logrus.Fields{
		"imei":          message.IMEI(),
		"momsn":         message.Header().MOMSN,
		"payload_bytes": len(message.Payload()),
	}).Info("message stored")
}

func (s *Server) fail() {
	if s.opts.Metrics != nil {
		s.opts.Metrics.IncFailed()
	}
}
