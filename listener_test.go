package eslgo

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenTCP_AcceptsAndPublishesConnection(t *testing.T) {
	listener, err := ListenTCP("127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Dispose()

	accepted := listener.Accepted()
	defer accepted.Close()

	raw, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer raw.Close()

	select {
	case conn := <-accepted.Ch():
		assert.NotNil(t, conn)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "listener never published the accepted connection")
	}
}

func TestListener_ConnectHandshake(t *testing.T) {
	listener, err := ListenTCP("127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Dispose()

	accepted := listener.Accepted()
	defer accepted.Close()

	raw, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer raw.Close()

	var conn *Connection
	select {
	case conn = <-accepted.Ch():
	case <-time.After(2 * time.Second):
		require.FailNow(t, "listener never published the accepted connection")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resultCh := make(chan *EventMessage, 1)
	errCh := make(chan error, 1)
	go func() {
		ev, err := conn.Connect(ctx)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- ev
	}()

	r := bufio.NewReader(raw)
	line := consumeLine(r)
	assert.Equal(t, "connect", line)
	assert.Equal(t, "", consumeLine(r))

	_, err = raw.Write([]byte(
		"Content-Type: command/reply\nEvent-Name: CHANNEL_DATA\nUnique-ID: call-99\n\n",
	))
	require.NoError(t, err)

	select {
	case ev := <-resultCh:
		assert.Equal(t, "call-99", ev.UUID())
		assert.Same(t, ev, conn.ChannelData())
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "Connect never resolved")
	}
}

func TestListener_DisposeClosesLiveConnections(t *testing.T) {
	listener, err := ListenTCP("127.0.0.1:0")
	require.NoError(t, err)

	accepted := listener.Accepted()
	defer accepted.Close()

	raw, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer raw.Close()

	var conn *Connection
	select {
	case conn = <-accepted.Ch():
	case <-time.After(2 * time.Second):
		require.FailNow(t, "listener never published the accepted connection")
	}

	require.NoError(t, listener.Dispose())

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		require.FailNow(t, "connection was not closed by Dispose")
	}
}

func TestListenTCP_EphemeralPortIsReadable(t *testing.T) {
	listener, err := ListenTCP("127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Dispose()

	assert.NotEqual(t, 0, listener.Addr().(*net.TCPAddr).Port)
	assert.True(t, strings.HasPrefix(listener.Addr().String(), "127.0.0.1:"))
}
