// Command kestrel-dig is a small manual-testing client: it builds a DNS
// query with internal/dnswire, sends it over UDP to a server (by default
// the locally running kestreld), and prints the decoded answer.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kestreldns/kestrel/internal/dnswire"
)

func main() {
	var (
		server   = flag.String("server", "127.0.0.1:53", "DNS server HOST:PORT")
		name     = flag.String("name", "example.com", "Query name")
		qtype    = flag.Int("qtype", int(dnswire.TypeA), "Query type (numeric, A=1, NS=2, MX=15, AAAA=28)")
		timeout  = flag.Duration("timeout", 2*time.Second, "Timeout")
		recvSize = flag.Int("recv-size", dnswire.MaxIncomingDNSMessageSize, "UDP receive buffer size")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	resp, err := queryUDP(*server, *name, uint16(*qtype), *timeout, *recvSize)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "kestrel-dig error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	msg, err := dnswire.ParseMessage(resp)
	if err != nil {
		fmt.Printf("received %d bytes (unparseable)\n", len(resp))
		return
	}

	fmt.Printf("id=%d rcode=%d answers=%d authorities=%d additionals=%d\n",
		msg.Header.ID,
		dnswire.RCodeFromFlags(msg.Header.Flags),
		len(msg.Answers),
		len(msg.Authorities),
		len(msg.Additionals),
	)

	rows := make([]string, 0, len(msg.Answers))
	for _, rr := range msg.Answers {
		rows = append(rows, formatRR(rr))
	}
	sort.Strings(rows)
	for _, s := range rows {
		fmt.Println(s)
	}
}

func queryUDP(server, name string, qtype uint16, timeout time.Duration, recvSize int) ([]byte, error) {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return nil, err
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	reqBytes, err := buildQuery(name, qtype)
	if err != nil {
		return nil, err
	}
	_ = c.SetDeadline(time.Now().Add(timeout))
	if _, err := c.Write(reqBytes); err != nil {
		return nil, err
	}
	buf := make([]byte, recvSize)
	n, err := c.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func buildQuery(name string, qtype uint16) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name required")
	}
	msg, err := dnswire.NewQuery(name, qtype)
	if err != nil {
		return nil, err
	}
	msg.Header.Flags = dnswire.RDFlag
	return msg.Marshal()
}

func formatRR(rr dnswire.Record) string {
	name := rr.Name
	if name == "" {
		name = "."
	}
	return fmt.Sprintf("%s %d IN %s %v", name, rr.TTL, recordTypeName(rr.Type), rr.Data)
}

func recordTypeName(t uint16) string {
	switch dnswire.RecordType(t) {
	case dnswire.TypeA:
		return "A"
	case dnswire.TypeAAAA:
		return "AAAA"
	case dnswire.TypeCNAME:
		return "CNAME"
	case dnswire.TypeNS:
		return "NS"
	case dnswire.TypeMX:
		return "MX"
	case dnswire.TypeSOA:
		return "SOA"
	case dnswire.TypePTR:
		return "PTR"
	case dnswire.TypeTXT:
		return "TXT"
	default:
		return fmt.Sprintf("TYPE%d", t)
	}
}
