// Package server implements the UDP frontend and query handler pipeline.
//
// Goroutine model: one worker per inbound datagram. The frontend blocks on
// ReadFromUDP, and on every packet received spawns a goroutine to run the
// pipeline and write the reply; it never waits for that goroutine before
// returning to the next ReadFromUDP call. This matches the concurrency
// model described for the resolver: handlers execute independently, may
// interleave freely, and each owns its own upstream socket for the
// lifetime of one resolution.
package server

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/kestreldns/kestrel/internal/dnswire"
	"github.com/kestreldns/kestrel/internal/pool"
)

// bufferPool reduces allocations for incoming UDP packets.
var bufferPool = pool.New(func() *[]byte {
	buf := make([]byte, dnswire.MaxIncomingDNSMessageSize)
	return &buf
})

// UDPServer binds one UDP socket and dispatches each received datagram to
// its own handler goroutine.
type UDPServer struct {
	Logger  *slog.Logger
	Handler *QueryHandler

	conn *net.UDPConn
	wg   sync.WaitGroup
}

// Run binds addr and serves until ctx is cancelled, then waits (bounded by
// a grace period) for in-flight handlers to finish before returning.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	return s.RunOnConn(ctx, conn)
}

// RunOnConn runs the server on an already-bound socket, useful for tests
// that want a fixed ephemeral port.
func (s *UDPServer) RunOnConn(ctx context.Context, conn *net.UDPConn) error {
	s.conn = conn

	done := make(chan struct{})
	go func() {
		s.recvLoop(ctx, conn)
		close(done)
	}()

	<-ctx.Done()
	_ = conn.Close()
	<-done
	return s.Stop(5 * time.Second)
}

// recvLoop reads datagrams and spawns one handler goroutine per datagram.
// It never blocks on a handler; the only bound on concurrency is whatever
// the OS and the resolver's own upstream sockets impose.
func (s *UDPServer) recvLoop(ctx context.Context, conn *net.UDPConn) {
	for {
		bufPtr := bufferPool.Get()
		buf := *bufPtr

		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			bufferPool.Put(bufPtr)
			return
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		bufferPool.Put(bufPtr)

		s.wg.Add(1)
		go func(payload []byte, peer *net.UDPAddr) {
			defer s.wg.Done()
			s.handleDatagram(ctx, conn, payload, peer)
		}(payload, peer)
	}
}

func (s *UDPServer) handleDatagram(ctx context.Context, conn *net.UDPConn, payload []byte, peer *net.UDPAddr) {
	if s.Handler == nil {
		return
	}
	resp := s.Handler.Handle(ctx, peer.String(), payload)
	if len(resp) == 0 {
		return
	}
	_, _ = conn.WriteToUDP(resp, peer)
}

// Stop closes the listening socket (if not already closed) and waits up to
// timeout for in-flight handler goroutines to finish.
func (s *UDPServer) Stop(timeout time.Duration) error {
	if s.conn != nil {
		_ = s.conn.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return nil
	}
}
