package service

import (
	"time"

	"github.com/okian/alumnet/internal/adapters/document"
	"github.com/okian/alumnet/internal/adapters/mq/worker"
	"github.com/okian/alumnet/internal/adapters/repository"
	"github.com/okian/alumnet/internal/catalog"
	"github.com/okian/alumnet/pkg/logger"
)

// Option configures the Service.
type Option func(*Service)

// WithStore sets the document store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the skill and role catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithDocumentReader sets the résumé document reader.
func WithDocumentReader(r *document.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.documents = r
		}
	}
}

// WithSinks sets where notifications are delivered.
func WithSinks(sinks ...worker.Sink) Option {
	return func(s *Service) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithPresence sets the source of online users.
func WithPresence(p Presence) Option {
	return func(s *Service) {
		s.presence = p
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithWorkerCount sets the number of notification workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the notification queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the idempotency cache size.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistoryLimit sets how many daily score entries are kept.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithDefaultCredits sets the credit balance of new users.
func WithDefaultCredits(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.defaultCredits = n
		}
	}
}

// WithLeaderboardLimits sets the default and maximum leaderboard page size.
func WithLeaderboardLimits(def, maxLimit int) Option {
	return func(s *Service) {
		if def > 0 && maxLimit >= def {
			s.leaderboardLimit = def
			s.maxLeaderboardLimit = maxLimit
		}
	}
}

// WithMinResumeChars sets the shortest résumé text accepted.
func WithMinResumeChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minResumeChars = n
		}
	}
}

// WithMaxUploadBytes caps uploaded documents.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
