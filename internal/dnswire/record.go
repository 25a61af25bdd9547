package dnswire

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
)

// Record is a decoded DNS resource record (RFC 1035 Section 4.1.3). RDATA is
// rendered to application-facing form at decode time per TYPE:
//   - A: dotted-quad string ("93.184.216.34")
//   - AAAA: canonical IPv6 text form
//   - NS, CNAME, PTR: the (decompressed) domain name, as a string
//   - MX: "<preference> <exchange>"
//   - OPT and anything else: opaque []byte, preserved but not interpreted
type Record struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   uint32
	Data  any
}

// ParseRecord parses a resource record at *off, advancing past it.
func ParseRecord(msg []byte, off *int) (Record, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return Record{}, err
	}
	if *off+10 > len(msg) {
		return Record{}, fmt.Errorf("%w: unexpected EOF reading record", ErrMalformedMessage)
	}
	rrType := binary.BigEndian.Uint16(msg[*off : *off+2])
	rrClass := binary.BigEndian.Uint16(msg[*off+2 : *off+4])
	ttl := binary.BigEndian.Uint32(msg[*off+4 : *off+8])
	rdlen := binary.BigEndian.Uint16(msg[*off+8 : *off+10])
	*off += 10

	if *off+int(rdlen) > len(msg) {
		return Record{}, fmt.Errorf("%w: unexpected EOF reading rdata", ErrMalformedMessage)
	}
	data, err := decodeRData(msg, off, RecordType(rrType), rdlen)
	if err != nil {
		return Record{}, err
	}
	return Record{Name: name, Type: rrType, Class: rrClass, TTL: ttl, Data: data}, nil
}

// decodeRData renders RDATA into its application-facing form. *off must
// point at the start of RDATA and is advanced by exactly rdlen bytes.
func decodeRData(msg []byte, off *int, rrType RecordType, rdlen uint16) (any, error) {
	start := *off
	switch rrType {
	case TypeA:
		if rdlen != 4 {
			return nil, fmt.Errorf("%w: A record rdata must be 4 bytes", ErrMalformedMessage)
		}
		ip := net.IPv4(msg[start], msg[start+1], msg[start+2], msg[start+3]).String()
		*off += 4
		return ip, nil
	case TypeAAAA:
		if rdlen != 16 {
			return nil, fmt.Errorf("%w: AAAA record rdata must be 16 bytes", ErrMalformedMessage)
		}
		ip := net.IP(msg[start : start+16]).String()
		*off += 16
		return ip, nil
	case TypeNS, TypeCNAME, TypePTR:
		name, err := DecodeName(msg, off)
		if err != nil {
			return nil, err
		}
		if *off-start != int(rdlen) {
			return nil, fmt.Errorf("%w: rdlength mismatch for name-based record", ErrMalformedMessage)
		}
		return name, nil
	case TypeMX:
		if *off+2 > len(msg) {
			return nil, fmt.Errorf("%w: unexpected EOF reading MX preference", ErrMalformedMessage)
		}
		pref := binary.BigEndian.Uint16(msg[*off : *off+2])
		*off += 2
		exchange, err := DecodeName(msg, off)
		if err != nil {
			return nil, err
		}
		if *off-start != int(rdlen) {
			return nil, fmt.Errorf("%w: rdlength mismatch for MX record", ErrMalformedMessage)
		}
		return strconv.Itoa(int(pref)) + " " + exchange, nil
	default:
		b := make([]byte, rdlen)
		copy(b, msg[start:start+int(rdlen)])
		*off += int(rdlen)
		return b, nil
	}
}

// Marshal serializes a record to wire format. It does not emit compression
// pointers for the record's own NAME or name-typed RDATA. As an escape
// hatch for hand-built fixtures (tests, relayed opaque records), a []byte
// Data value is always passed through as raw RDATA regardless of Type.
func (rr Record) Marshal() ([]byte, error) {
	nameWire, err := EncodeName(rr.Name)
	if err != nil {
		return nil, err
	}
	rdata, err := rr.marshalRData()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nameWire)+10+len(rdata))
	out = append(out, nameWire...)
	fixed := make([]byte, 10)
	binary.BigEndian.PutUint16(fixed[0:2], rr.Type)
	binary.BigEndian.PutUint16(fixed[2:4], rr.Class)
	binary.BigEndian.PutUint32(fixed[4:8], rr.TTL)
	binary.BigEndian.PutUint16(fixed[8:10], uint16(len(rdata)))
	out = append(out, fixed...)
	return append(out, rdata...), nil
}

func (rr Record) marshalRData() ([]byte, error) {
	if b, ok := rr.Data.([]byte); ok {
		return b, nil
	}
	switch RecordType(rr.Type) {
	case TypeA:
		s, ok := rr.Data.(string)
		ip := net.ParseIP(s).To4()
		if !ok || ip == nil {
			return nil, fmt.Errorf("%w: A record data must be a dotted-quad string", ErrMalformedMessage)
		}
		return ip, nil
	case TypeAAAA:
		s, ok := rr.Data.(string)
		ip := net.ParseIP(s).To16()
		if !ok || ip == nil {
			return nil, fmt.Errorf("%w: AAAA record data must be an IPv6 string", ErrMalformedMessage)
		}
		return ip, nil
	case TypeNS, TypeCNAME, TypePTR:
		s, ok := rr.Data.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("%w: name-based record data must be a non-empty string", ErrMalformedMessage)
		}
		return EncodeName(s)
	default:
		return nil, fmt.Errorf("%w: unsupported RR type for marshal: %d", ErrMalformedMessage, rr.Type)
	}
}
