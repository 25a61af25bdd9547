package resolver

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Exchanger sends a single DNS query to a name server and returns its raw
// reply bytes. Implementations own whatever socket they use and release it
// on Close.
type Exchanger interface {
	Exchange(ctx context.Context, addr string, query []byte) ([]byte, error)
	Close() error
}

// recvBufferSize is generous relative to the source's 1024-byte recvfrom
// buffer; large enough for any reply the resolver is required to support.
const recvBufferSize = 4096

// UDPExchanger is a single unconnected UDP socket reused across every
// exchange in one resolution (one per handler, per the concurrency model),
// so a referral walk through several name servers does not open a new
// socket per hop.
type UDPExchanger struct {
	conn *net.UDPConn
}

// NewUDPExchanger opens an ephemeral local UDP socket.
func NewUDPExchanger() (*UDPExchanger, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("resolver: open upstream socket: %w", err)
	}
	return &UDPExchanger{conn: conn}, nil
}

// Exchange sends query to addr and waits for a reply, bounded by ctx's
// deadline.
func (x *UDPExchanger) Exchange(ctx context.Context, addr string, query []byte) ([]byte, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolver: resolve %q: %w", addr, err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(10 * time.Second)
	}
	if err := x.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	if _, err := x.conn.WriteToUDP(query, raddr); err != nil {
		return nil, fmt.Errorf("resolver: write to %q: %w", addr, err)
	}

	buf := make([]byte, recvBufferSize)
	n, _, err := x.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamTimeout, addr, err)
		}
		return nil, err
	}
	return buf[:n], nil
}

// Close releases the underlying socket.
func (x *UDPExchanger) Close() error {
	return x.conn.Close()
}
