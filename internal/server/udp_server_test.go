package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestreldns/kestrel/internal/cache"
	"github.com/kestreldns/kestrel/internal/dnswire"
)

func TestUDPServerAnswersQuery(t *testing.T) {
	upstreamResp := buildAnswerMessage(t, 0xCAFE, "example.com.", 3600, "93.184.216.34")
	h := &QueryHandler{
		Cache:    cache.New(10),
		Resolver: newStubEngine(upstreamResp, nil),
		Stats:    NewDNSStats(),
		Timeout:  time.Second,
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	srvAddr := conn.LocalAddr().(*net.UDPAddr)

	srv := &UDPServer{Handler: h}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = srv.RunOnConn(ctx, conn)
		close(done)
	}()

	client, err := net.DialUDP("udp", nil, srvAddr)
	require.NoError(t, err)
	defer client.Close()

	q := buildClientQuery(t, "example.com.")
	_, err = client.Write(q)
	require.NoError(t, err)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, err := client.Read(buf)
	require.NoError(t, err)

	msg, err := dnswire.ParseMessage(buf[:n])
	require.NoError(t, err)
	require.Len(t, msg.Answers, 1)
	assert.Equal(t, "93.184.216.34", msg.Answers[0].Data)
	assert.Equal(t, q[0:2], buf[0:2])

	cancel()
	<-done
}
