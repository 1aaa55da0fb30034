package websocket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/trivia_api/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeConn struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.events = append(f.events, v.(Event))
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHubDeliversEventsToRegisteredClients(t *testing.T) {
	hub, _ := startHub(t)
	a, b := &fakeConn{}, &fakeConn{}
	hub.Register(&Client{ID: uuid.New(), Conn: a})
	hub.Register(&Client{ID: uuid.New(), Conn: b})
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	q := models.FormattedQuestion{ID: 7, Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3}
	hub.Publish(Event{Event: EventQuestionCreated, QuestionID: 7, Question: &q})

	for _, conn := range []*fakeConn{a, b} {
		conn := conn
		assert.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, EventQuestionCreated, conn.received()[0].Event)
		assert.Equal(t, 7, conn.received()[0].QuestionID)
	}
}

func TestHubDropsClientsWhoseWritesFail(t *testing.T) {
	hub, _ := startHub(t)
	bad := &fakeConn{fail: true}
	hub.Register(&Client{ID: uuid.New(), Conn: bad})

	hub.Publish(Event{Event: EventQuestionDeleted, QuestionID: 3})

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, bad.isClosed())
}

func TestHubUnregisterRemovesClient(t *testing.T) {
	hub, _ := startHub(t)
	conn := &fakeConn{}
	client := &Client{ID: uuid.New(), Conn: conn}
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubStopsOnCancelAndPublishDoesNotBlock(t *testing.T) {
	hub, cancel := startHub(t)
	conn := &fakeConn{}
	hub.Register(&Client{ID: uuid.New(), Conn: conn})

	cancel()
	assert.Eventually(t, conn.isClosed, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(Event{Event: EventQuestionDeleted, QuestionID: i})
		}
		hub.Register(&Client{ID: uuid.New(), Conn: &fakeConn{}})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}
}

// blockingConn never finishes a write until it is closed, like a peer that
// stopped reading.
type blockingConn struct {
	once     sync.Once
	closedCh chan struct{}
}

func newBlockingConn() *blockingConn {
	return &blockingConn{closedCh: make(chan struct{})}
}

func (b *blockingConn) WriteJSON(interface{}) error {
	<-b.closedCh
	return errors.New("use of closed connection")
}

func (b *blockingConn) SetWriteDeadline(time.Time) error { return nil }

func (b *blockingConn) Close() error {
	b.once.Do(func() { close(b.closedCh) })
	return nil
}

func (b *blockingConn) isClosed() bool {
	select {
	case <-b.closedCh:
		return true
	default:
		return false
	}
}

func TestHubStalledClientDoesNotBlockPublishers(t *testing.T) {
	hub, _ := startHub(t)
	stalled := newBlockingConn()
	hub.Register(&Client{ID: uuid.New(), Conn: stalled})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			hub.Publish(Event{Event: EventQuestionCreated, QuestionID: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked behind a stalled client")
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, stalled.isClosed())
	require.Eventually(t, func() bool { return len(hub.broadcast) == 0 }, time.Second, 5*time.Millisecond)

	healthy := &fakeConn{}
	hub.Register(&Client{ID: uuid.New(), Conn: healthy})
	hub.Publish(Event{Event: EventQuestionDeleted, QuestionID: 1})
	assert.Eventually(t, func() bool { return len(healthy.received()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestHubShutsDownWithStalledClient(t *testing.T) {
	hub, cancel := startHub(t)
	stalled := newBlockingConn()
	client := NewClient(stalled)
	require.True(t, hub.Register(client))
	hub.Publish(Event{Event: EventQuestionCreated, QuestionID: 1})

	cancel()

	select {
	case <-client.stopped:
	case <-time.After(time.Second):
		t.Fatal("writer did not exit after shutdown")
	}
	assert.True(t, stalled.isClosed())
	assert.False(t, hub.Register(NewClient(&fakeConn{})))
}
