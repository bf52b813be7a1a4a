package fsp

import (
	"context"
	"encoding/binary"
	"net"
	"strings"
	"time"

	perr "kaucja/internal/platform/errors"
	"kaucja/internal/platform/logger"
)

const (
	defaultTimeout = 5 * time.Second
	segmentSize    = 128
	maxDatagram    = 65535
	dirBlockSize   = 1024
)

// Config configures a Client
type Config struct {
	Addr    string // host:port, port 2121 by default on the devices
	Timeout time.Duration
}

// Client speaks FSP v2 to one printer over a single UDP socket
// Not safe for concurrent use: the protocol is strictly request/response
// with a per-session key and sequence number
type Client struct {
	conn    net.Conn
	timeout time.Duration
	log     *logger.Logger

	key    uint16
	seq    uint16
	inited bool
}

// Dial opens the UDP socket; the session itself starts lazily with the
// first request (CC_VERSION handshake, server picks the key)
func Dial(cfg Config) (*Client, error) {
	to := cfg.Timeout
	if to <= 0 {
		to = defaultTimeout
	}
	conn, err := net.Dial("udp", cfg.Addr)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "dial printer")
	}
	return &Client{
		conn:    conn,
		timeout: to,
		log:     logger.Named("fsp"),
	}, nil
}

// roundTrip sends one request and reads one response, updating the session
// key and sequence per the protocol
func (c *Client) roundTrip(ctx context.Context, cmd byte, position uint32, data []byte) (packet, error) {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return packet{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "set deadline")
	}

	req := buildPacket(cmd, c.key, c.seq, position, data)
	c.seq++

	if _, err := c.conn.Write(req); err != nil {
		return packet{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "send packet")
	}

	buf := make([]byte, maxDatagram)
	n, err := c.conn.Read(buf)
	if err != nil {
		return packet{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read response")
	}

	resp, err := parsePacket(buf[:n])
	if err != nil {
		return packet{}, err
	}

	// the server chooses the session key; echo back whatever came last
	if resp.Key != 0 && resp.Key != c.key {
		c.key = resp.Key
	}

	if resp.Cmd == CmdErr {
		msg := strings.TrimRight(string(resp.Data), "\x00")
		return packet{}, perr.Protocolf("device error: %s", msg)
	}
	return resp, nil
}

// ensureSession performs the CC_VERSION handshake once
func (c *Client) ensureSession(ctx context.Context) error {
	if c.inited {
		return nil
	}
	resp, err := c.roundTrip(ctx, CmdVersion, 0, nil)
	if err != nil {
		return err
	}
	c.inited = true
	c.log.Debug().Str("version", strings.TrimRight(string(resp.Data), "\x00")).Msg("fsp session started")
	return nil
}

// ListDir returns the full listing of one remote directory, following
// pagination until the terminating entry
func (c *Client) ListDir(ctx context.Context, path string) ([]DirEntry, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	payload := append([]byte(path), 0)
	payload = binary.BigEndian.AppendUint16(payload, dirBlockSize)

	var all []DirEntry
	var position uint32
	for {
		resp, err := c.roundTrip(ctx, CmdGetDir, position, payload)
		if err != nil {
			return nil, err
		}
		entries, end := parseDirEntries(resp.Data)
		all = append(all, entries...)
		if end || len(entries) == 0 {
			return all, nil
		}
		// the device addresses directory pages by entry index, not byte offset
		position += uint32(len(entries))
	}
}

// GetSegment fetches one file segment starting at position
func (c *Client) GetSegment(ctx context.Context, path string, position uint32) ([]byte, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	payload := append([]byte(path), 0)
	resp, err := c.roundTrip(ctx, CmdGetFile, position, payload)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ReadFile fetches a whole file segment by segment. The device signals the
// end with a short or empty segment
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	var out []byte
	var position uint32
	for {
		seg, err := c.GetSegment(ctx, path, position)
		if err != nil {
			return nil, err
		}
		if len(seg) == 0 {
			return out, nil
		}
		out = append(out, seg...)
		if len(seg) < segmentSize {
			return out, nil
		}
		position += uint32(len(seg))
	}
}

// Stat returns metadata for one remote path
func (c *Client) Stat(ctx context.Context, path string) (DirEntry, error) {
	if err := c.ensureSession(ctx); err != nil {
		return DirEntry{}, err
	}
	payload := append([]byte(path), 0)
	resp, err := c.roundTrip(ctx, CmdStat, 0, payload)
	if err != nil {
		return DirEntry{}, err
	}
	if len(resp.Data) < 9 {
		return DirEntry{}, perr.Protocolf("short stat response: %d bytes", len(resp.Data))
	}
	e := DirEntry{
		Size: binary.BigEndian.Uint32(resp.Data[4:8]),
		Dir:  resp.Data[8] == rdTypeDir,
		Name: path,
	}
	if ts := binary.BigEndian.Uint32(resp.Data[0:4]); ts > 0 {
		e.Time = time.Unix(int64(ts), 0).UTC()
	}
	return e, nil
}

// Close ends the session with a best-effort CC_BYE and closes the socket
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	if c.inited {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, _ = c.roundTrip(ctx, CmdBye, 0, nil)
		cancel()
	}
	return c.conn.Close()
}
