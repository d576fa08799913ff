package service

import (
	"net"
	"net/http"
	"time"
)

// NewUpstreamTransport returns the transport shared by both forwarding modes.
// The response header wait and idle keep-alive period both equal the timeout ceiling.
func NewUpstreamTransport(ceiling time.Duration) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.ResponseHeaderTimeout = ceiling
	transport.IdleConnTimeout = ceiling
	transport.MaxIdleConnsPerHost = 32

	return transport
}
