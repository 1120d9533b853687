package antivirus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd answers PING and flags any stream containing "EICAR".
func fakeClamd(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveClamd(conn)
		}
	}()
	return ln.Addr().String()
}

func serveClamd(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	cmd, err := r.ReadString(0)
	if err != nil {
		return
	}
	switch strings.TrimRight(cmd, "\x00") {
	case "zPING":
		conn.Write([]byte("PONG\x00"))
	case "zINSTREAM":
		var body bytes.Buffer
		for {
			var size uint32
			if err := binary.Read(r, binary.BigEndian, &size); err != nil {
				return
			}
			if size == 0 {
				break
			}
			if _, err := io.CopyN(&body, r, int64(size)); err != nil {
				return
			}
		}
		if bytes.Contains(body.Bytes(), []byte("EICAR")) {
			conn.Write([]byte("stream: Eicar-Test-Signature FOUND\x00"))
			return
		}
		conn.Write([]byte("stream: OK\x00"))
	}
}

func TestClamAV_Scan(t *testing.T) {
	scanner := NewClamAV(fakeClamd(t), 5*time.Second)
	ctx := context.Background()

	require.NoError(t, scanner.Ping(ctx))

	verdict, err := scanner.Scan(ctx, strings.NewReader("just a resume"))
	require.NoError(t, err)
	assert.False(t, verdict.Infected)

	// Large enough to span several chunks.
	payload := bytes.Repeat([]byte("a"), 3*chunkSize)
	payload = append(payload, []byte("EICAR")...)
	verdict, err = scanner.Scan(ctx, bytes.NewReader(payload))
	require.NoError(t, err)
	assert.True(t, verdict.Infected)
	assert.Equal(t, "Eicar-Test-Signature", verdict.Threat)
}

func TestClamAV_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	scanner := NewClamAV(addr, time.Second)
	_, err = scanner.Scan(context.Background(), strings.NewReader("x"))
	assert.Error(t, err)
	assert.Error(t, scanner.Ping(context.Background()))
}

func TestParseReply(t *testing.T) {
	v, err := parseReply("stream: OK")
	require.NoError(t, err)
	assert.False(t, v.Infected)

	v, err = parseReply("stream: Win.Test.EICAR_HDB-1 FOUND")
	require.NoError(t, err)
	assert.Equal(t, "Win.Test.EICAR_HDB-1", v.Threat)

	_, err = parseReply("INSTREAM size limit exceeded. ERROR")
	assert.Error(t, err)

	_, err = parseReply("garbage")
	assert.Error(t, err)
}
