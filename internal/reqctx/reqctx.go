// Package reqctx scopes a leased database connection and a correlation id to
// a single request or background job.
//
// A Scope is created by Factory.Bind when handling starts and is handed to
// every component that needs the connection, the settings or the logger.
// Factory.Unbind releases it on every exit path.
package reqctx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/config"
)

var ErrReleased = errors.New("request scope already released")

// Factory is the shared session factory. It is safe for concurrent use.
type Factory struct {
	db  *sql.DB
	cfg config.Config
	log *zap.Logger

	newID func() string

	mu     sync.Mutex
	scopes map[string]*Scope
}

// NewFactory creates a Factory leasing connections from db.
func NewFactory(db *sql.DB, cfg config.Config, log *zap.Logger) *Factory {
	return &Factory{
		db:     db,
		cfg:    cfg,
		log:    log,
		newID:  uuid.NewString,
		scopes: make(map[string]*Scope),
	}
}

// Bind registers a new Scope under a fresh correlation id.
func (f *Factory) Bind(ctx context.Context) *Scope {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.newID()
	for {
		if _, taken := f.scopes[id]; !taken {
			break
		}
		id = f.newID()
	}

	sc := &Scope{
		id:      id,
		factory: f,
		log:     f.log.With(zap.String("ctx_id", id)),
	}
	f.scopes[id] = sc
	return sc
}

// Unbind releases the scope's connection and forgets it. A release failure is
// logged and swallowed.
func (f *Factory) Unbind(sc *Scope) {
	if err := sc.release(); err != nil {
		sc.log.Warn("failed to release scoped db session", zap.Error(err))
	}

	f.mu.Lock()
	delete(f.scopes, sc.id)
	f.mu.Unlock()
}

// Active returns the number of scopes currently bound.
func (f *Factory) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scopes)
}

// Scope is owned by exactly one request. It must not be shared.
type Scope struct {
	id      string
	factory *Factory
	log     *zap.Logger

	mu       sync.Mutex
	conn     *sql.Conn
	released bool
}

// ID returns the correlation id.
func (s *Scope) ID() string { return s.id }

// Config returns the service settings.
func (s *Scope) Config() config.Config { return s.factory.cfg }

// Log returns a logger tagged with the correlation id.
func (s *Scope) Log() *zap.Logger { return s.log }

// Conn returns the scope's leased connection, leasing it from the pool on
// first use.
func (s *Scope) Conn(ctx context.Context) (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrReleased
	}
	if s.conn != nil {
		return s.conn, nil
	}

	conn, err := s.factory.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("leasing db connection: %w", err)
	}
	s.conn = conn
	return conn, nil
}

func (s *Scope) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true

	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	return conn.Close()
}
