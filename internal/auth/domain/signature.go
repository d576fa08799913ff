package domain

import "net/http"

// SignatureRequest holds the signature headers of a single request.
// It is never persisted.
type SignatureRequest struct {
	Signature string
	Timestamp string
	Nonce     string
}

// SignatureRequestFromHeader extracts the signature headers.
func SignatureRequestFromHeader(header http.Header) SignatureRequest {
	return SignatureRequest{
		Signature: header.Get(HeaderSignature),
		Timestamp: header.Get(HeaderTimestamp),
		Nonce:     header.Get(HeaderNonce),
	}
}

// IsComplete reports whether all three headers are present.
func (r SignatureRequest) IsComplete() bool {
	return r.Signature != "" && r.Timestamp != "" && r.Nonce != ""
}

// Admission is the outcome of a successful admission check.
type Admission struct {
	Via Via
}
