package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	db      Pinger
	storage string
}

// NewService constructs a health service. db may be nil when running on
// in-memory repositories.
func NewService(db Pinger) *Service {
	storage := "memory"
	if db != nil {
		storage = "postgres"
	}
	return &Service{db: db, storage: storage}
}

// Status reports whether the process can serve requests.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{"ok": true, "storage": s.storage}
	if s.db == nil {
		return out, true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		out["ok"] = false
		return out, false
	}
	return out, true
}
