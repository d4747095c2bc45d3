package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"anonq/internal/domain"
	"anonq/internal/realtime"
)

// FeedOptions configure a Feed's refresh behaviour.
type FeedOptions struct {
	// MessageInterval is the polling interval for the message list.
	MessageInterval time.Duration
	// StatsInterval is the polling interval for the stats aggregate.
	StatsInterval time.Duration
	// Retry is the policy applied to each refresh.
	Retry Retry
}

// DefaultFeedOptions poll messages every 30s and stats every 60s.
var DefaultFeedOptions = FeedOptions{
	MessageInterval: 30 * time.Second,
	StatsInterval:   60 * time.Second,
	Retry:           DefaultRetry,
}

// Feed is a cached view of one profile's messages and stats. It re-fetches on
// a fixed interval, on realtime change events for that profile, and after
// every local mutation routed through Refresh. The store stays the source of
// truth; the cache is advisory and always eventually overwritten.
//
// Start establishes the subscription and tickers; Stop tears both down and
// must be called before the owning context (the viewing client) goes away.
type Feed struct {
	profileID uuid.UUID
	msgs      *MessageService
	hub       *realtime.Hub
	opts      FeedOptions
	log       *slog.Logger

	// OnNewMessage, if set before Start, is invoked for every insert event
	// observed on the profile's messages.
	OnNewMessage func()

	mu       sync.Mutex
	messages []domain.Message
	stats    *domain.MessageStats

	cancel context.CancelFunc
	done   chan struct{}
}

// NewFeed creates a stopped feed for one profile.
func NewFeed(msgs *MessageService, hub *realtime.Hub, profileID uuid.UUID, opts FeedOptions, log *slog.Logger) *Feed {
	return &Feed{
		profileID: profileID,
		msgs:      msgs,
		hub:       hub,
		opts:      opts,
		log:       log,
	}
}

// Start performs the initial fetch and begins background refreshing. It may
// be called once per feed.
func (f *Feed) Start(ctx context.Context) error {
	if err := f.Refresh(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})

	sub := f.hub.Subscribe(realtime.TableMessages, f.profileID)
	go f.run(runCtx, sub)
	return nil
}

// Stop tears down the subscription and tickers. Safe to call more than once.
func (f *Feed) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	<-f.done
	f.cancel = nil
}

func (f *Feed) run(ctx context.Context, sub *realtime.Subscription) {
	defer close(f.done)
	defer sub.Stop()

	msgTicker := time.NewTicker(f.opts.MessageInterval)
	defer msgTicker.Stop()
	statsTicker := time.NewTicker(f.opts.StatsInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sub.C:
			if err := f.Refresh(ctx); err != nil {
				f.log.Error("feed refresh after change event failed", "err", err)
			}
			if ev.Type == realtime.EventInsert && f.OnNewMessage != nil {
				f.OnNewMessage()
			}
		case <-msgTicker.C:
			if err := f.refreshMessages(ctx); err != nil {
				f.log.Error("feed message poll failed", "err", err)
			}
		case <-statsTicker.C:
			if err := f.refreshStats(ctx); err != nil {
				f.log.Error("feed stats poll failed", "err", err)
			}
		}
	}
}

// Refresh re-fetches both the message list and the stats aggregate.
func (f *Feed) Refresh(ctx context.Context) error {
	if err := f.refreshMessages(ctx); err != nil {
		return err
	}
	return f.refreshStats(ctx)
}

func (f *Feed) refreshMessages(ctx context.Context) error {
	var msgs []domain.Message
	err := f.opts.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		msgs, err = f.msgs.List(ctx, f.profileID)
		return err
	})
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.messages = msgs
	f.mu.Unlock()
	return nil
}

func (f *Feed) refreshStats(ctx context.Context) error {
	var stats *domain.MessageStats
	err := f.opts.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		stats, err = f.msgs.Stats(ctx, f.profileID)
		return err
	})
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.stats = stats
	f.mu.Unlock()
	return nil
}

// Messages returns the cached message list, newest first.
func (f *Feed) Messages() []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

// Stats returns the cached stats aggregate, or nil before the first
// successful stats fetch.
func (f *Feed) Stats() *domain.MessageStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stats == nil {
		return nil
	}
	st := *f.stats
	return &st
}

// UnreadCount counts unread messages in the cached list.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.messages {
		if !m.IsRead {
			n++
		}
	}
	return n
}
