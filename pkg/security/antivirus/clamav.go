package antivirus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// chunkSize stays well below clamd's default StreamMaxLength.
const chunkSize = 64 << 10

// ClamAV talks to a clamd daemon over TCP ("host:3310") or a unix socket path.
type ClamAV struct {
	network string
	address string
	timeout time.Duration
}

var _ Scanner = (*ClamAV)(nil)

func NewClamAV(address string, timeout time.Duration) *ClamAV {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	network := "tcp"
	if strings.HasPrefix(address, "/") {
		network = "unix"
	}
	return &ClamAV{network: network, address: address, timeout: timeout}
}

func (c *ClamAV) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, c.network, c.address)
	if err != nil {
		return nil, fmt.Errorf("clamd: dial %s: %w", c.address, err)
	}

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping reports whether clamd answers.
func (c *ClamAV) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("clamd: ping: %w", err)
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("clamd: unexpected ping reply %q", reply)
	}
	return nil
}

// Scan streams r to clamd with the INSTREAM command.
func (c *ClamAV) Scan(ctx context.Context, r io.Reader) (Verdict, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return Verdict{}, err
	}
	defer conn.Close()

	w := bufio.NewWriterSize(conn, chunkSize+4)
	if _, err := w.WriteString("zINSTREAM\x00"); err != nil {
		return Verdict{}, fmt.Errorf("clamd: send command: %w", err)
	}

	buf := make([]byte, chunkSize)
	var size [4]byte
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(size[:], uint32(n))
			if _, err := w.Write(size[:]); err != nil {
				return Verdict{}, fmt.Errorf("clamd: send chunk: %w", err)
			}
			if _, err := w.Write(buf[:n]); err != nil {
				return Verdict{}, fmt.Errorf("clamd: send chunk: %w", err)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return Verdict{}, fmt.Errorf("clamd: read input: %w", readErr)
		}
	}

	// A zero-length chunk ends the stream.
	binary.BigEndian.PutUint32(size[:], 0)
	if _, err := w.Write(size[:]); err != nil {
		return Verdict{}, fmt.Errorf("clamd: end stream: %w", err)
	}
	if err := w.Flush(); err != nil {
		return Verdict{}, fmt.Errorf("clamd: flush: %w", err)
	}

	reply, err := readReply(conn)
	if err != nil {
		return Verdict{}, err
	}
	return parseReply(reply)
}

// readReply reads one NUL-terminated reply.
func readReply(conn net.Conn) (string, error) {
	line, err := bufio.NewReader(conn).ReadBytes(0)
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", fmt.Errorf("clamd: read reply: %w", err)
	}
	return string(bytes.TrimSpace(bytes.TrimRight(line, "\x00"))), nil
}

// parseReply understands "stream: OK", "stream: <name> FOUND" and "<msg> ERROR".
func parseReply(reply string) (Verdict, error) {
	_, status, ok := strings.Cut(reply, ": ")
	if !ok {
		status = reply
	}

	switch {
	case status == "OK":
		return Verdict{}, nil
	case strings.HasSuffix(status, " FOUND"):
		return Verdict{Infected: true, Threat: strings.TrimSuffix(status, " FOUND")}, nil
	case strings.HasSuffix(reply, "ERROR"):
		return Verdict{}, fmt.Errorf("clamd: %s", reply)
	default:
		return Verdict{}, fmt.Errorf("clamd: unexpected reply %q", reply)
	}
}
