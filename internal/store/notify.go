package store

import (
	"context"
	"sync"
)

// Notifier is the host's change feed. Delivery is advisory: a slow or late
// subscriber may miss keys and must re-read the store to catch up.
type Notifier interface {
	Publish(ctx context.Context, key string) error
	Subscribe(ctx context.Context) (<-chan string, error)
}

// WithNotifier wraps kv so every successful Set or Delete publishes the key.
// Publish failures are ignored; the write already happened.
func WithNotifier(kv Store, n Notifier) Store {
	if n == nil {
		return kv
	}
	return &notifyingStore{Store: kv, notifier: n}
}

type notifyingStore struct {
	Store
	notifier Notifier
}

func (s *notifyingStore) Set(ctx context.Context, key, value string) error {
	if err := s.Store.Set(ctx, key, value); err != nil {
		return err
	}
	_ = s.notifier.Publish(ctx, key)
	return nil
}

func (s *notifyingStore) Delete(ctx context.Context, key string) error {
	if err := s.Store.Delete(ctx, key); err != nil {
		return err
	}
	_ = s.notifier.Publish(ctx, key)
	return nil
}

const localBuffer = 16

// LocalNotifier fans keys out to subscribers inside one process.
type LocalNotifier struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{subs: map[chan string]struct{}{}}
}

func (n *LocalNotifier) Publish(_ context.Context, key string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- key:
		default:
			// full buffer: this subscriber misses the key
		}
	}
	return nil
}

// Subscribe returns a channel that is closed once ctx is done.
func (n *LocalNotifier) Subscribe(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, localBuffer)

	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, ch)
		close(ch)
		n.mu.Unlock()
	}()
	return ch, nil
}
