// Package clockapi exposes an itc.ItcPair and its companion ItcMap over
// HTTP, in the same chi-router-plus-Prometheus shape the rest of this
// codebase's API surfaces use.
package clockapi

import "encoding/json"

// APIResponse is the envelope every handler writes.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port       int
	APIKey     string
	ActorLabel string
}

// ForkResponse carries the base64-encoded child pair produced by a fork.
type ForkResponse struct {
	Pair string `json:"pair"`
}

// TimestampResponse carries a base64-encoded EventTree.
type TimestampResponse struct {
	Timestamp string `json:"timestamp"`
}

// JoinRequest carries the base64-encoded remote pair to join in.
type JoinRequest struct {
	Pair string `json:"pair"`
}

// SyncRequest carries the base64-encoded remote EventTree to sync in.
type SyncRequest struct {
	Timestamp string `json:"timestamp"`
}

// MapValue is the value type stored in the served ItcMap: arbitrary JSON.
type MapValue = json.RawMessage

// PatchResponse carries a base64-encoded Patch[MapValue].
type PatchResponse struct {
	Patch string `json:"patch"`
}

// ApplyRequest carries the base64-encoded Patch[MapValue] to apply.
type ApplyRequest struct {
	Patch string `json:"patch"`
}
