package ipfire

import "errors"

var (
	// ErrAuthRequired means the router rejected the configured credentials.
	// It is the one failure callers are expected to act on.
	ErrAuthRequired = errors.New("ipfire: authorization required")

	// ErrUnavailable covers every transient transport failure: DNS, refused
	// connection, TLS handshake, I/O error, deadline.
	ErrUnavailable = errors.New("ipfire: endpoint unavailable")

	// ErrBadPayload means the response body was not a well-formed speed
	// report (malformed XML, missing or non-numeric counter elements).
	ErrBadPayload = errors.New("ipfire: malformed speed report")
)
