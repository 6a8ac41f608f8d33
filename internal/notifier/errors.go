package notifier

import "errors"

// Sentinel errors for scan notification.
var (
	// ErrRequestFailed indicates the POST never produced an HTTP response
	// (connection refused, DNS failure, timeout).
	ErrRequestFailed = errors.New("notifier: request failed")

	// ErrNoEndpoint indicates the notifier was created without a URL.
	ErrNoEndpoint = errors.New("notifier: endpoint is required")
)
