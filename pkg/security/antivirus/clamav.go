package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// clamd rejects INSTREAM chunks above StreamMaxLength; 64 KiB stays well under.
const chunkSize = 64 * 1024

// ClamAVScanner connects to clamd daemon for malware scanning
type ClamAVScanner struct {
	address string // "host:port" or a unix socket path
	timeout time.Duration
}

var _ Scanner = (*ClamAVScanner)(nil)

func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	conn.SetDeadline(time.Now().Add(timeout))
	return conn, nil
}

// Available sends PING and expects PONG.
func (c *ClamAVScanner) Available(ctx context.Context) bool {
	conn, err := c.dial(ctx, 5*time.Second)
	if err != nil {
		return false
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return false
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(buf[:n]), "PONG")
}

// Scan streams data with zINSTREAM in length-prefixed chunks.
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(format string, err error) ScanResult {
		result.Infected = true
		result.Error = fmt.Errorf(format, err)
		return result
	}

	conn, err := c.dial(ctx, c.timeout)
	if err != nil {
		return fail("failed to connect to clamd: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail("failed to send command: %w", err)
	}

	size := make([]byte, 4)
	for off := 0; off < len(data); off += chunkSize {
		end := min(off+chunkSize, len(data))
		binary.BigEndian.PutUint32(size, uint32(end-off))
		if _, err := conn.Write(size); err != nil {
			return fail("failed to send chunk size: %w", err)
		}
		if _, err := conn.Write(data[off:end]); err != nil {
			return fail("failed to send chunk: %w", err)
		}
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail("failed to send end marker: %w", err)
	}

	resp, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil && len(resp) == 0 {
		return fail("failed to read response: %w", err)
	}
	infected, threat, scanErr := parseResponse(string(resp))
	result.Infected = infected
	result.ThreatName = threat
	result.Error = scanErr
	return result
}

// parseResponse understands "stream: OK", "stream: Name FOUND" and
// "stream: msg ERROR". Anything else fails closed.
func parseResponse(resp string) (infected bool, threat string, err error) {
	resp = strings.TrimRight(strings.TrimSpace(resp), "\x00")
	body := resp
	if _, after, ok := strings.Cut(resp, ":"); ok {
		body = strings.TrimSpace(after)
	}
	switch {
	case body == "OK":
		return false, "", nil
	case strings.HasSuffix(body, "FOUND"):
		return true, strings.TrimSpace(strings.TrimSuffix(body, "FOUND")), nil
	case strings.HasSuffix(body, "ERROR"):
		return true, "", fmt.Errorf("scan error: %s", resp)
	}
	return true, "", fmt.Errorf("unexpected clamd response: %q", resp)
}
