package dnswire

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewQuery builds a standard outbound query: ID is a uniform random 16-bit
// value, flags are zero (no recursion-desired bit - the resolver walks the
// hierarchy itself), QDCOUNT=1, all other counts zero.
func NewQuery(name string, qtype uint16) (Message, error) {
	if qtypeName(qtype) == "" {
		return Message{}, fmt.Errorf("%w: qtype %d", ErrInvalidQueryType, qtype)
	}
	return Message{
		Header: Header{ID: uint16(rand.UintN(1 << 16))},
		Questions: []Question{
			{Name: NormalizeName(name), Type: qtype, Class: uint16(ClassIN)},
		},
	}, nil
}

func qtypeName(qtype uint16) string {
	switch RecordType(qtype) {
	case TypeA:
		return "A"
	case TypeAAAA:
		return "AAAA"
	case TypeMX:
		return "MX"
	case TypeNS:
		return "NS"
	default:
		return ""
	}
}

// BuildQuery assembles a full query message from question-section bytes
// (as produced by Fingerprint) and a transaction ID: a fresh 12-byte header
// with QDCOUNT=1 followed verbatim by those bytes. Used by the resolver to
// reissue a question under its own randomly chosen ID.
func BuildQuery(id uint16, questionBytes []byte) []byte {
	h := Header{ID: id, QDCount: 1}
	out := make([]byte, 0, HeaderSize+len(questionBytes))
	out = append(out, h.Marshal()...)
	return append(out, questionBytes...)
}

// Fingerprint returns the question-section bytes of a raw query (everything
// after the 12-byte header). This is the cache key: it is stable under
// transaction-ID randomization.
func Fingerprint(rawQuery []byte) ([]byte, error) {
	if len(rawQuery) < HeaderSize {
		return nil, fmt.Errorf("%w: query shorter than header", ErrMalformedMessage)
	}
	return rawQuery[HeaderSize:], nil
}

// ReplaceID returns a copy of msg with its first two bytes (transaction ID)
// overwritten by id. Used by the query handler to stamp the client's own
// transaction ID onto a freshly resolved upstream response.
func ReplaceID(id uint16, msg []byte) []byte {
	out := make([]byte, len(msg))
	copy(out, msg)
	if len(out) >= 2 {
		binary.BigEndian.PutUint16(out[0:2], id)
	}
	return out
}

// ComposeReply reconstructs a full reply from a client's transaction ID and
// a cached response body (a full response with its original 2-byte ID
// stripped). This is how cache hits are sent back to the client that
// actually asked; freshly resolved answers go through ReplaceID instead.
func ComposeReply(id uint16, cachedBody []byte) []byte {
	out := make([]byte, 2+len(cachedBody))
	binary.BigEndian.PutUint16(out[0:2], id)
	copy(out[2:], cachedBody)
	return out
}

// StripID returns a copy of a raw response message without its leading
// 2-byte transaction ID, the form stored in the cache.
func StripID(rawResponse []byte) []byte {
	if len(rawResponse) < 2 {
		return append([]byte(nil), rawResponse...)
	}
	out := make([]byte, len(rawResponse)-2)
	copy(out, rawResponse[2:])
	return out
}
