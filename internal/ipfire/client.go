// Package ipfire samples an IPFire router's speed.cgi endpoint and derives
// instantaneous throughput from its cumulative traffic counters.
package ipfire

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// SpeedCGIPath is the fixed resource path of the router's speed report.
const SpeedCGIPath = "/cgi-bin/speed.cgi"

const (
	defaultDialTimeout = 5 * time.Second
	defaultReadTimeout = 10 * time.Second
)

// Config holds everything needed to reach the router's web interface.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// InsecureSkipVerify disables peer certificate and hostname
	// verification. IPFire ships a self-signed certificate, so most
	// installations need this; it is an explicit opt-in, never a default.
	InsecureSkipVerify bool

	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Client fetches the raw speed report over TLS with a hand-built HTTP/1.0
// request. It is not a general HTTP client: no redirects, no chunked
// transfer, no Content-Length handling. The narrowing is fine only because
// speed.cgi sends one short body and closes the connection.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	return &Client{cfg: cfg}
}

// Fetch returns the response body of one speed.cgi request. An empty body
// with a nil error is a valid outcome (the endpoint answered with nothing).
// A 401 response fails with ErrAuthRequired; every other failure wraps
// ErrUnavailable.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.cfg.DialTimeout},
		Config: &tls.Config{
			ServerName:         c.cfg.Host,
			InsecureSkipVerify: c.cfg.InsecureSkipVerify,
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("%w: dial %s: %v", ErrUnavailable, addr, err)
	}
	defer conn.Close()

	// Cancelling the context aborts an in-flight read by closing the
	// connection out from under it.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.SetDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
		return "", fmt.Errorf("%w: set deadline: %v", ErrUnavailable, err)
	}

	if _, err := conn.Write([]byte(c.request())); err != nil {
		return "", fmt.Errorf("%w: write request: %v", ErrUnavailable, err)
	}

	header, body, err := splitResponse(bufio.NewScanner(conn))
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		}
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if authRejected(header) {
		return "", fmt.Errorf("%w: %s", ErrAuthRequired, addr)
	}

	return body, nil
}

func (c *Client) request() string {
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.Username + ":" + c.cfg.Password))

	var b strings.Builder
	fmt.Fprintf(&b, "GET %s HTTP/1.0\r\n", SpeedCGIPath)
	fmt.Fprintf(&b, "HOST: %s\r\n", c.cfg.Host)
	fmt.Fprintf(&b, "Authorization: BASIC %s\r\n", auth)
	b.WriteString("\r\n")
	return b.String()
}

// splitResponse reads the whole line-oriented response and splits it on the
// first empty line: everything before is header, everything after is body.
// Body lines are concatenated without separators; the XML payload arrives on
// a single line anyway. The stream ends when the server closes the
// connection.
func splitResponse(sc *bufio.Scanner) (header []string, body string, err error) {
	var b strings.Builder
	inBody := false

	for sc.Scan() {
		line := sc.Text()
		if inBody {
			b.WriteString(line)
			continue
		}
		if line == "" {
			inBody = true
			continue
		}
		header = append(header, line)
	}
	if err := sc.Err(); err != nil {
		return nil, "", err
	}

	return header, b.String(), nil
}

// authRejected checks the status line for code 401. Matching the bare code
// covers both Apache's "401 Authorization Required" and any other reason
// phrase.
func authRejected(header []string) bool {
	if len(header) == 0 {
		return false
	}
	return strings.Contains(header[0], " 401 ")
}
