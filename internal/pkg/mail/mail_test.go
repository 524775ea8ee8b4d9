package mail

import (
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledSenderSwallowsMessage(t *testing.T) {
	s := New(Config{Enable: false})
	assert.NoError(t, s.Send(Message{To: []string{"reader@example.com"}, Subject: "x"}))
}

func TestSendSMTPUnreachableHostFails(t *testing.T) {
	// Reserve a port and close it again so the dial is refused immediately.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, _ := strconv.Atoi(portStr)

	s := New(Config{Enable: true, Host: host, Port: port})
	assert.Error(t, s.Send(Message{To: []string{"reader@example.com"}, Subject: "x"}))
}

// A server that accepts the connection and then goes silent must not park the
// delivery goroutine; the connection deadline bounds the whole exchange.
func TestSendSMTPStalledServerTimesOut(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	done := make(chan struct{})
	go func() {
		conn, err := l.Accept()
		if err == nil {
			<-done
			conn.Close()
		}
	}()
	defer close(done)

	prev := smtpSendTimeout
	smtpSendTimeout = 200 * time.Millisecond
	defer func() { smtpSendTimeout = prev }()

	host, portStr, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, _ := strconv.Atoi(portStr)

	s := New(Config{Enable: true, Host: host, Port: port})

	start := time.Now()
	err = s.Send(Message{To: []string{"reader@example.com"}, Subject: "x", HTML: "<p>x</p>"})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, 5*time.Second)
	assert.True(t,
		strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline"),
		"expected a timeout error, got: %v", err)
}
