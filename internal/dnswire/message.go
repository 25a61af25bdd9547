package dnswire

import (
	"encoding/binary"
	"fmt"
)

// Message is a complete DNS message (RFC 1035 Section 4): a header plus the
// question, answer, authority, and additional sections.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Marshal serializes the message to wire format, refreshing the header's
// section counts from the slices' lengths.
func (m Message) Marshal() ([]byte, error) {
	h := Header{
		ID:      m.Header.ID,
		Flags:   m.Header.Flags,
		QDCount: uint16(len(m.Questions)),
		ANCount: uint16(len(m.Answers)),
		NSCount: uint16(len(m.Authorities)),
		ARCount: uint16(len(m.Additionals)),
	}

	estimatedSize := HeaderSize + len(m.Questions)*32 + (len(m.Answers)+len(m.Authorities)+len(m.Additionals))*48
	out := make([]byte, 0, estimatedSize)
	out = append(out, h.Marshal()...)
	for _, q := range m.Questions {
		b, err := q.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	for _, section := range [][]Record{m.Answers, m.Authorities, m.Additionals} {
		for _, rr := range section {
			b, err := rr.Marshal()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// ParseMessage decodes a complete DNS message.
//
// Per entry, a single-byte lookahead distinguishes a question-form entry
// (name, type, class) from a resource-record form (name, type, class, ttl,
// rdlength, rdata): if the byte at the entry's start is exactly 0xC0, it is
// treated as a compressed-name resource record; otherwise it is treated as
// a question-form entry. This is applied uniformly to every section,
// including the question section itself - a question name is expected to
// be uncompressed, and a leading 0xC0 byte there is parsed as a resource
// record instead, matching observed upstream behavior rather than
// special-casing the question section.
func ParseMessage(msg []byte) (Message, error) {
	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return Message{}, err
	}

	m := Message{Header: h}

	m.Questions = make([]Question, 0, limitCount(h.QDCount, MaxQuestions))
	for range h.QDCount {
		name, typ, class, _, _, _, err := parseEntryLookahead(msg, &off)
		if err != nil {
			return Message{}, err
		}
		m.Questions = append(m.Questions, Question{Name: name, Type: typ, Class: class})
	}

	for _, dst := range []struct {
		count uint16
		out   *[]Record
	}{
		{h.ANCount, &m.Answers},
		{h.NSCount, &m.Authorities},
		{h.ARCount, &m.Additionals},
	} {
		*dst.out = make([]Record, 0, limitCount(dst.count, MaxRRPerSection))
		for range dst.count {
			name, typ, class, ttl, data, _, err := parseEntryLookahead(msg, &off)
			if err != nil {
				return Message{}, err
			}
			*dst.out = append(*dst.out, Record{Name: name, Type: typ, Class: class, TTL: ttl, Data: data})
		}
	}

	return m, nil
}

func limitCount(count uint16, limit int) int {
	if int(count) > limit {
		return limit
	}
	return int(count)
}

// parseEntryLookahead parses a single question-or-record entry starting at
// *off, applying the 0xC0 lookahead rule described on ParseMessage.
func parseEntryLookahead(msg []byte, off *int) (name string, typ, class uint16, ttl uint32, data any, isRR bool, err error) {
	if *off >= len(msg) {
		return "", 0, 0, 0, nil, false, fmt.Errorf("%w: unexpected EOF reading entry", ErrMalformedMessage)
	}
	if msg[*off] == 0xC0 {
		rr, err := ParseRecord(msg, off)
		if err != nil {
			return "", 0, 0, 0, nil, false, err
		}
		return rr.Name, rr.Type, rr.Class, rr.TTL, rr.Data, true, nil
	}

	name, err = DecodeName(msg, off)
	if err != nil {
		return "", 0, 0, 0, nil, false, err
	}
	if *off+4 > len(msg) {
		return "", 0, 0, 0, nil, false, fmt.Errorf("%w: unexpected EOF reading question-form entry", ErrMalformedMessage)
	}
	typ = binary.BigEndian.Uint16(msg[*off : *off+2])
	class = binary.BigEndian.Uint16(msg[*off+2 : *off+4])
	*off += 4
	return NormalizeName(name), typ, class, 0, nil, false, nil
}
