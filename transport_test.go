package stratum

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockTransport implements Transport with testify/mock. Close fulfills the
// interface contract of closing the signal channel, so the connection's
// signal pump always terminates.
type mockTransport struct {
	mock.Mock

	signals   chan Signal
	closeOnce sync.Once
}

// Ensure mockTransport implements Transport.
var _ Transport = (*mockTransport)(nil)

func newMockTransport() *mockTransport {
	return &mockTransport{signals: make(chan Signal, 4)}
}

func (m *mockTransport) factory() TransportFactory {
	return func(host string, port int) Transport { return m }
}

func (m *mockTransport) Dial(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTransport) Call(ctx context.Context, method string, callArgs ...any) (any, error) {
	args := m.Called(append([]any{ctx, method}, callArgs...)...)
	return args.Get(0), args.Error(1)
}

func (m *mockTransport) Signals() <-chan Signal {
	return m.signals
}

func (m *mockTransport) Close() error {
	m.closeOnce.Do(func() { close(m.signals) })
	args := m.Called()
	return args.Error(0)
}

// openConn connects through a fresh mock transport with no credentials and no
// default keyspace. The mock is primed for dialing and teardown only; tests
// register the calls they expect.
func openConn(t *testing.T) (*Connection, *mockTransport) {
	t.Helper()

	mt := newMockTransport()
	mt.On("Dial", mock.Anything).Return(nil)
	mt.On("Close").Return(nil).Maybe()

	conn, err := Open(&Config{
		Host:         gofakeit.DomainName(),
		NewTransport: mt.factory(),
	})
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	t.Cleanup(conn.Close)
	return conn, mt
}

// recvEvent waits for one lifecycle event.
func recvEvent(t *testing.T, conn *Connection) Event {
	t.Helper()
	select {
	case ev := <-conn.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}
