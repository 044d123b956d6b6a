package realtime_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asinan007/tripping/internal/trip/realtime"
	"github.com/asinan007/tripping/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type fakeSub struct {
	id   string
	fail bool

	mu   sync.Mutex
	msgs []string
}

func (f *fakeSub) ID() string { return f.id }

func (f *fakeSub) Send(_ context.Context, msg []byte) error {
	if f.fail {
		return errors.New("connection gone")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, string(msg))
	return nil
}

func (f *fakeSub) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

func newHub() *realtime.Hub {
	return realtime.NewHub(slogx.Discard())
}

func TestPublishIsolatedPerTrip(t *testing.T) {
	ctx := context.Background()
	hub := newHub()

	a := &fakeSub{id: "a"}
	b := &fakeSub{id: "b"}
	hub.Subscribe("trip-a", a)
	hub.Subscribe("trip-b", b)

	hub.Publish(ctx, "trip-b", map[string]string{"type": "trip_updated"})

	require.Empty(t, a.received())
	require.Equal(t, []string{`{"type":"trip_updated"}`}, b.received())
}

func TestPublishWithoutSubscribersIsDropped(t *testing.T) {
	hub := newHub()
	require.Equal(t, 0, hub.Broadcast(context.Background(), "nobody", []byte("x"), ""))

	late := &fakeSub{id: "late"}
	hub.Subscribe("nobody", late)
	require.Empty(t, late.received(), "nothing is replayed to late subscribers")
}

func TestFailingSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := newHub()

	bad := &fakeSub{id: "bad", fail: true}
	good := &fakeSub{id: "good"}
	hub.Subscribe("trip", bad)
	hub.Subscribe("trip", good)

	n := hub.Broadcast(context.Background(), "trip", []byte("hello"), "")
	require.Equal(t, 1, n)
	require.Equal(t, []string{"hello"}, good.received())
}

// slowSub stalls for delay on every send and then fails, like a viewer that
// stopped reading and hit its write deadline.
type slowSub struct {
	id    string
	delay time.Duration
	calls atomic.Int32
}

func (s *slowSub) ID() string { return s.id }

func (s *slowSub) Send(context.Context, []byte) error {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return errors.New("i/o timeout")
}

func TestFailedSendDropsSubscriber(t *testing.T) {
	ctx := context.Background()
	hub := newHub()

	stalled := &slowSub{id: "stalled", delay: 100 * time.Millisecond}
	good := &fakeSub{id: "good"}
	hub.Subscribe("trip", stalled)
	hub.Subscribe("trip", good)

	hub.Publish(ctx, "trip", map[string]int{"n": 1})
	require.Equal(t, 1, hub.Subscribers("trip"))
	require.Equal(t, 1, hub.Total())

	// Later publishes no longer wait on the stalled viewer
	start := time.Now()
	hub.Publish(ctx, "trip", map[string]int{"n": 2})
	hub.Publish(ctx, "trip", map[string]int{"n": 3})
	require.Less(t, time.Since(start), 100*time.Millisecond)

	require.Equal(t, int32(1), stalled.calls.Load())
	require.Equal(t, []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}, good.received())
}

// reconnectingSub fails its send after the same connection id has been
// re-subscribed with a new handle.
type reconnectingSub struct {
	id      string
	hub     *realtime.Hub
	tripID  string
	replace realtime.Subscriber
}

func (r *reconnectingSub) ID() string { return r.id }

func (r *reconnectingSub) Send(context.Context, []byte) error {
	r.hub.Subscribe(r.tripID, r.replace)
	return errors.New("connection reset")
}

func TestEvictionKeepsReplacedHandle(t *testing.T) {
	hub := newHub()

	fresh := &fakeSub{id: "conn"}
	stale := &reconnectingSub{id: "conn", hub: hub, tripID: "trip", replace: fresh}
	hub.Subscribe("trip", stale)

	require.Equal(t, 0, hub.Broadcast(context.Background(), "trip", []byte("x"), ""))
	require.Equal(t, 1, hub.Subscribers("trip"))

	require.Equal(t, 1, hub.Broadcast(context.Background(), "trip", []byte("y"), ""))
	require.Equal(t, []string{"y"}, fresh.received())
}

func TestUnsubscribe(t *testing.T) {
	hub := newHub()
	s := &fakeSub{id: "s"}

	hub.Unsubscribe("trip", s) // absent: no-op

	hub.Subscribe("trip", s)
	require.Equal(t, 1, hub.Subscribers("trip"))
	require.Equal(t, 1, hub.Total())

	hub.Unsubscribe("trip", s)
	hub.Unsubscribe("trip", s)
	require.Equal(t, 0, hub.Subscribers("trip"))
	require.Equal(t, 0, hub.Total())

	require.Equal(t, 0, hub.Broadcast(context.Background(), "trip", []byte("x"), ""))
	require.Empty(t, s.received())
}

func TestRelaySkipsSender(t *testing.T) {
	hub := newHub()
	alice := &fakeSub{id: "alice"}
	bob := &fakeSub{id: "bob"}
	carol := &fakeSub{id: "carol"}
	for _, s := range []*fakeSub{alice, bob, carol} {
		hub.Subscribe("trip", s)
	}

	n := hub.Relay(context.Background(), "trip", []byte("not json at all"), alice)
	require.Equal(t, 2, n)
	require.Empty(t, alice.received())
	require.Equal(t, []string{"not json at all"}, bob.received())
	require.Equal(t, []string{"not json at all"}, carol.received())
}

func TestSequentialPublishesArriveInOrder(t *testing.T) {
	ctx := context.Background()
	hub := newHub()
	subs := []*fakeSub{{id: "1"}, {id: "2"}, {id: "3"}}
	for _, s := range subs {
		hub.Subscribe("trip", s)
	}

	var want []string
	for i := range 20 {
		msg := fmt.Sprintf("event-%02d", i)
		want = append(want, msg)
		hub.Broadcast(ctx, "trip", []byte(msg), "")
	}

	for _, s := range subs {
		require.Equal(t, want, s.received())
	}
}

func TestConcurrentPublishesKeepOneOrder(t *testing.T) {
	ctx := context.Background()
	hub := newHub()
	subs := []*fakeSub{{id: "1"}, {id: "2"}, {id: "3"}}
	for _, s := range subs {
		hub.Subscribe("trip", s)
	}

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hub.Broadcast(ctx, "trip", []byte(fmt.Sprintf("event-%d", i)), "")
		}(i)
	}
	wg.Wait()

	first := subs[0].received()
	require.Len(t, first, 50)
	for _, s := range subs[1:] {
		require.Equal(t, first, s.received())
	}
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	ctx := context.Background()
	hub := newHub()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		s := &fakeSub{id: fmt.Sprintf("s-%d", i)}
		go func() {
			defer wg.Done()
			hub.Subscribe("trip", s)
			hub.Unsubscribe("trip", s)
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast(ctx, "trip", []byte("x"), "")
		}()
	}
	wg.Wait()

	require.Equal(t, 0, hub.Total())
}
