package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"

	"github.com/lib/pq"
)

const (
	subscriptionBuffer = 64
	listenerPing       = 90 * time.Second
)

// notificationSource is the part of *pq.Listener the feed depends on.
type notificationSource interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// ChangeFeed delivers committed order and shipment changes to subscribers.
// Run must be started once; subscriptions receive changes only while it runs.
type ChangeFeed struct {
	source notificationSource
	logger *slog.Logger

	mu            sync.Mutex
	subscriptions map[*subscription]struct{}
}

// NewChangeFeed opens a dedicated LISTEN connection on dsn.
func NewChangeFeed(dsn string, logger *slog.Logger) (*ChangeFeed, error) {
	logger = logger.With("component", "change_feed")

	listener := pq.NewListener(dsn, time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		switch event {
		case pq.ListenerEventDisconnected:
			logger.Warn("change feed disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("change feed reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("change feed connection attempt failed", "error", err)
		}
	})
	if err := listener.Listen(ChangesChannel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", ChangesChannel, err)
	}

	return newChangeFeed(listener, logger), nil
}

func newChangeFeed(source notificationSource, logger *slog.Logger) *ChangeFeed {
	return &ChangeFeed{
		source:        source,
		logger:        logger,
		subscriptions: make(map[*subscription]struct{}),
	}
}

// Run dispatches notifications until ctx ends or the listener is closed.
func (f *ChangeFeed) Run(ctx context.Context) error {
	ping := time.NewTicker(listenerPing)
	defer ping.Stop()

	notifications := f.source.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ping.C:
			if err := f.source.Ping(); err != nil {
				f.logger.Warn("change feed ping failed", "error", err)
			}
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			// A nil notification follows a reconnect; changes may have been missed.
			if n == nil {
				f.logger.Warn("change feed connection was re-established")
				continue
			}
			f.dispatch(n.Extra)
		}
	}
}

func (f *ChangeFeed) dispatch(payload string) {
	change, err := decodeChange(payload)
	if err != nil {
		f.logger.Warn("dropping malformed change", "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subscriptions {
		if !sub.query.Matches(change) {
			continue
		}
		select {
		case sub.changes <- change:
		default:
			f.logger.Warn("subscriber is not keeping up, change dropped",
				"collection", change.Collection, "id", change.ID.String(), "status", change.Status)
		}
	}
}

// Subscribe registers a subscription that is closed when ctx ends or Close
// is called, whichever comes first.
func (f *ChangeFeed) Subscribe(ctx context.Context, query ports.ChangeQuery) (ports.Subscription, error) {
	if query.Collection != ports.OrdersCollection && query.Collection != ports.ShipmentsCollection {
		return nil, errs.NewValueIsInvalidErrorWithCause("collection",
			fmt.Errorf("%q is not a subscribable collection", query.Collection))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &subscription{
		feed:    f,
		query:   query,
		changes: make(chan ports.Change, subscriptionBuffer),
		done:    make(chan struct{}),
	}

	f.mu.Lock()
	f.subscriptions[sub] = struct{}{}
	f.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

// Close stops the listener. Run returns once the notification channel drains.
func (f *ChangeFeed) Close() error {
	f.mu.Lock()
	subs := make([]*subscription, 0, len(f.subscriptions))
	for sub := range f.subscriptions {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	var closeErr error
	for _, sub := range subs {
		closeErr = errors.Join(closeErr, sub.Close())
	}
	return errors.Join(closeErr, f.source.Close())
}

func (f *ChangeFeed) remove(sub *subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subscriptions[sub]; ok {
		delete(f.subscriptions, sub)
		close(sub.changes)
	}
}

type subscription struct {
	feed    *ChangeFeed
	query   ports.ChangeQuery
	changes chan ports.Change
	done    chan struct{}
	once    sync.Once
}

func (s *subscription) Changes() <-chan ports.Change {
	return s.changes
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.feed.remove(s)
		close(s.done)
	})
	return nil
}
