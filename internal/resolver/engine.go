package resolver

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/kestreldns/kestrel/internal/dnswire"
)

// Engine drives the iterative referral walk: starting at the root, it
// exchanges a question with successive name servers, following delegation
// (glue, or a nested A-lookup for an NS name) until a response satisfies
// the caller or the shared hop budget is exhausted.
type Engine struct {
	RootAddr       string
	AttemptTimeout time.Duration
	MaxHops        int

	// NewExchanger opens the single upstream socket used for every
	// exchange within one resolution. Defaults to NewUDPExchanger.
	NewExchanger func() (Exchanger, error)
}

// NewEngine builds an Engine with the given root server address, wired to
// real UDP.
func NewEngine(rootAddr string, attemptTimeout time.Duration, maxHops int) *Engine {
	return &Engine{
		RootAddr:       rootAddr,
		AttemptTimeout: attemptTimeout,
		MaxHops:        maxHops,
		NewExchanger: func() (Exchanger, error) {
			return NewUDPExchanger()
		},
	}
}

// Resolve takes raw query bytes as received from a client (12-byte header +
// question) and returns the raw reply bytes from whichever name server
// ultimately answered. The handler's upstream socket is opened and closed
// entirely within this call.
func (e *Engine) Resolve(ctx context.Context, rawQuery []byte) ([]byte, error) {
	fp, err := dnswire.Fingerprint(rawQuery)
	if err != nil {
		return nil, err
	}

	ex, err := e.newExchanger()
	if err != nil {
		return nil, err
	}
	defer ex.Close()

	hops := 0
	resp, _, err := e.walk(ctx, ex, fp, e.RootAddr, &hops, hasAnswer)
	return resp, err
}

func (e *Engine) newExchanger() (Exchanger, error) {
	if e.NewExchanger != nil {
		return e.NewExchanger()
	}
	return NewUDPExchanger()
}

func hasAnswer(m dnswire.Message) bool {
	return m.Header.ANCount > 0 && len(m.Answers) > 0
}

// walk implements the algorithm from the design: transmit to target, decode
// the reply, stop when done reports success, otherwise follow glue or
// recurse into an NS-name lookup (itself another call to walk, starting
// again at the root) - sharing hops as a single budget across the whole
// resolution, nested lookups included.
func (e *Engine) walk(ctx context.Context, ex Exchanger, questionBytes []byte, target string, hops *int, done func(dnswire.Message) bool) ([]byte, dnswire.Message, error) {
	for {
		if *hops >= e.MaxHops {
			return nil, dnswire.Message{}, ErrReferralLoop
		}
		*hops++

		attemptCtx, cancel := context.WithTimeout(ctx, e.AttemptTimeout)
		id := uint16(rand.UintN(1 << 16))
		resp, err := ex.Exchange(attemptCtx, target, dnswire.BuildQuery(id, questionBytes))
		cancel()
		if err != nil {
			return nil, dnswire.Message{}, err
		}

		msg, err := dnswire.ParseMessage(resp)
		if err != nil {
			return nil, dnswire.Message{}, err
		}

		if done(msg) {
			return resp, msg, nil
		}

		if addr, ok := firstGlueAddress(msg.Additionals); ok {
			target = net.JoinHostPort(addr, "53")
			continue
		}

		nsName, ok := firstNSName(msg.Authorities)
		if !ok {
			return nil, dnswire.Message{}, fmt.Errorf("%w: no glue or authority in referral", ErrReferralLoop)
		}

		addr, err := e.resolveNameToAddress(ctx, ex, nsName, hops)
		if err != nil {
			return nil, dnswire.Message{}, err
		}
		target = net.JoinHostPort(addr, "53")
	}
}

// resolveNameToAddress performs a nested A-record lookup for name, starting
// again at the root, sharing the caller's hop budget (design step 5).
func (e *Engine) resolveNameToAddress(ctx context.Context, ex Exchanger, name string, hops *int) (string, error) {
	q, err := dnswire.NewQuery(name, uint16(dnswire.TypeA))
	if err != nil {
		return "", err
	}
	queryBytes, err := q.Marshal()
	if err != nil {
		return "", err
	}
	fp, err := dnswire.Fingerprint(queryBytes)
	if err != nil {
		return "", err
	}

	foundA := func(m dnswire.Message) bool {
		_, ok := firstAAddress(m.Answers)
		return ok
	}

	_, msg, err := e.walk(ctx, ex, fp, e.RootAddr, hops, foundA)
	if err != nil {
		return "", err
	}
	addr, _ := firstAAddress(msg.Answers)
	return addr, nil
}

func firstGlueAddress(additionals []dnswire.Record) (string, bool) {
	for _, rr := range additionals {
		if dnswire.RecordType(rr.Type) == dnswire.TypeA {
			if ip, ok := rr.Data.(string); ok {
				return ip, true
			}
		}
	}
	return "", false
}

func firstNSName(authorities []dnswire.Record) (string, bool) {
	for _, rr := range authorities {
		if dnswire.RecordType(rr.Type) == dnswire.TypeNS {
			if name, ok := rr.Data.(string); ok {
				return name, true
			}
		}
	}
	return "", false
}

func firstAAddress(answers []dnswire.Record) (string, bool) {
	for _, rr := range answers {
		if dnswire.RecordType(rr.Type) == dnswire.TypeA {
			if ip, ok := rr.Data.(string); ok {
				return ip, true
			}
		}
	}
	return "", false
}
