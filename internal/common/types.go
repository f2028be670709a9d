package common

import (
	"time"

	"github.com/google/uuid"

	"typedhash/internal/eip712"
)

// StructHashRequest asks for the hash of a single record instance, without
// the domain separator composition.
type StructHashRequest struct {
	Types       eip712.Types            `json:"types"`
	PrimaryType string                  `json:"primaryType"`
	Message     eip712.TypedDataMessage `json:"message"`
}

// DomainSeparatorParams are the query parameters of the domain-separator
// endpoint.
type DomainSeparatorParams struct {
	Name              string `schema:"name"`
	Version           string `schema:"version"`
	ChainID           int64  `schema:"chainId"`
	VerifyingContract string `schema:"verifyingContract"`
	Salt              string `schema:"salt"`
}

// HashResponse is the API's answer for every hashing endpoint.
type HashResponse struct {
	RequestID uuid.UUID `json:"requestId"`
	Hash      string    `json:"hash"`
	Cached    bool      `json:"cached"`
}

// HashEvent is pushed to websocket subscribers for every hash the service
// computes.
type HashEvent struct {
	RequestID   uuid.UUID `json:"requestId"`
	PrimaryType string    `json:"primaryType"`
	Hash        string    `json:"hash"`
	Cached      bool      `json:"cached"`
	Timestamp   time.Time `json:"timestamp"`
}
