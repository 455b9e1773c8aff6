package dispatcher

import (
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/service/dao"
	"github.com/bigsources/jobdesk/service/messaging"
)

// Option configures the dispatcher.
type Option func(*service)

// WithLogger sets the logger used to report failed dispatches.
func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithQueue replaces the default in-memory event queue.
func WithQueue(q messaging.Queue[approval.Event]) Option {
	return func(s *service) {
		if q != nil {
			s.events = q
		}
	}
}

// WithAdminID tags published events with the acting admin.
func WithAdminID(adminID string) Option {
	return func(s *service) { s.adminID = adminID }
}

// WithStore replaces the in-memory decision log.
func WithStore(store dao.Service[string, approval.Decision]) Option {
	return func(s *service) {
		if store != nil {
			s.decisions = store
		}
	}
}
