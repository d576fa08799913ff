// Package domain defines the request admission model of the proxy.
// Business requests are admitted through developer mode, the administrator header
// or a time-boxed request signature.
package domain

import "time"

// Via identifies which admission branch let a request through.
type Via string

const (
	// ViaDevMode means developer mode was enabled and no check was performed.
	ViaDevMode Via = "dev_mode"

	// ViaAdminHeader means the x-admin-pass header matched the administrator secret.
	ViaAdminHeader Via = "admin_header"

	// ViaSignature means the signature headers were verified against the auth secret.
	ViaSignature Via = "signature"
)

// Request headers read by the admission gate.
const (
	HeaderSignature = "x-sign"
	HeaderTimestamp = "x-time"
	HeaderNonce     = "x-nonce"
	HeaderAdminPass = "x-admin-pass"
)

// DefaultSignatureWindow is the maximum distance between a request timestamp and the server clock.
const DefaultSignatureWindow = 300 * time.Second
