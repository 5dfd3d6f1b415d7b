package clockapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/itcclock/pkg/itc"
	"github.com/ssargent/itcclock/pkg/itcmap"
)

// Server holds the clock API's state.
type Server struct {
	service *ClockService
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new clock API server.
func NewServer(service *ClockService, config ServerConfig, metrics *Metrics) *Server {
	return &Server{service: service, config: config, metrics: metrics}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the clock API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy", "actor": s.service.ActorLabel()})
}

// handleFork godoc
//
//	@Summary		Fork the held clock
//	@Description	Splits the held pair's authority and returns the child pair, base64-encoded
//	@Tags			clock
//	@Produce		json
//	@Success		200	{object}	ForkResponse
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/fork [post]
func (s *Server) handleFork(w http.ResponseWriter, r *http.Request) {
	child := s.service.Fork()
	s.metrics.RecordClockOperation("fork", true)
	sendSuccess(w, ForkResponse{Pair: base64.StdEncoding.EncodeToString(itc.EncodePair(child))})
}

// handleEvent godoc
//
//	@Summary		Record a local event
//	@Description	Advances the held pair's own history and returns its new timestamp
//	@Tags			clock
//	@Produce		json
//	@Success		200	{object}	TimestampResponse
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/event [post]
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ts, err := s.service.Event()
	if err != nil {
		s.metrics.RecordClockOperation("event", false)
		sendError(w, fmt.Sprintf("failed to record event: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordClockOperation("event", true)
	sendSuccess(w, TimestampResponse{Timestamp: base64.StdEncoding.EncodeToString(itc.EncodeEventTree(ts))})
}

// handleJoin godoc
//
//	@Summary		Join a remote pair
//	@Description	Reunites a forked-off pair's authority and history with the held pair
//	@Tags			clock
//	@Accept			json
//	@Produce		json
//	@Param			request	body		JoinRequest	true	"base64-encoded remote pair"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/join [post]
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordClockOperation("join", false)
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Pair)
	if err != nil {
		s.metrics.RecordClockOperation("join", false)
		sendError(w, "invalid base64 pair", http.StatusBadRequest)
		return
	}
	remote, err := itc.DecodePair(raw)
	if err != nil {
		s.metrics.RecordClockOperation("join", false)
		sendError(w, fmt.Sprintf("malformed pair: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.service.Join(remote); err != nil {
		s.metrics.RecordClockOperation("join", false)
		sendError(w, fmt.Sprintf("failed to join: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordClockOperation("join", true)
	sendSuccess(w, map[string]string{"message": "joined"})
}

// handleSync godoc
//
//	@Summary		Sync a remote timestamp
//	@Description	Merges a remote EventTree into the held pair's history without claiming authority
//	@Tags			clock
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SyncRequest	true	"base64-encoded remote EventTree"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/sync [post]
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordClockOperation("sync", false)
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Timestamp)
	if err != nil {
		s.metrics.RecordClockOperation("sync", false)
		sendError(w, "invalid base64 timestamp", http.StatusBadRequest)
		return
	}
	remote, err := itc.DecodeEventTree(raw)
	if err != nil {
		s.metrics.RecordClockOperation("sync", false)
		sendError(w, fmt.Sprintf("malformed timestamp: %v", err), http.StatusBadRequest)
		return
	}

	s.service.Sync(remote)
	s.metrics.RecordClockOperation("sync", true)
	sendSuccess(w, map[string]string{"message": "synced"})
}

// handlePeek godoc
//
//	@Summary		Peek at the held clock
//	@Description	Returns an anonymous, authority-less snapshot of the held pair's timestamp
//	@Tags			clock
//	@Produce		json
//	@Success		200	{object}	TimestampResponse
//	@Security		ApiKeyAuth
//	@Router			/peek [get]
func (s *Server) handlePeek(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Peek()
	s.metrics.RecordClockOperation("peek", true)
	sendSuccess(w, TimestampResponse{Timestamp: base64.StdEncoding.EncodeToString(itc.EncodeEventTree(snapshot.Timestamp()))})
}

// handleMapSet godoc
//
//	@Summary		Set a map value
//	@Description	Writes a JSON value at the given identity path, encoded as a string of '0'/'1' characters
//	@Tags			map
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string		true	"identity path, e.g. \"01\""
//	@Param			body	body		interface{}	true	"JSON value to store"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/map/{path} [put]
func (s *Server) handleMapSet(w http.ResponseWriter, r *http.Request) {
	path, err := parsePathParam(chi.URLParam(r, "path"))
	if err != nil {
		s.metrics.RecordMapOperation("set", false)
		sendError(w, fmt.Sprintf("invalid path: %v", err), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.RecordMapOperation("set", false)
		sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		s.metrics.RecordMapOperation("set", false)
		sendError(w, "request body must be valid JSON", http.StatusBadRequest)
		return
	}

	if err := s.service.MapSet(path, MapValue(body)); err != nil {
		s.metrics.RecordMapOperation("set", false)
		sendError(w, fmt.Sprintf("failed to set value: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordMapOperation("set", true)
	sendSuccess(w, map[string]string{"message": "value stored"})
}

// parsePathParam reads a URL path segment made of '0'/'1' characters into an
// itc.Path, one byte per character.
func parsePathParam(s string) (itc.Path, error) {
	if s == "" {
		return nil, fmt.Errorf("path must not be empty")
	}
	path := make(itc.Path, len(s))
	for i, c := range s {
		switch c {
		case '0':
			path[i] = 0
		case '1':
			path[i] = 1
		default:
			return nil, fmt.Errorf("path element %q must be '0' or '1'", c)
		}
	}
	return path, nil
}

// handleMapDiff godoc
//
//	@Summary		Diff the served map
//	@Description	Returns a base64-encoded Patch of every entry not reflected in the supplied EventTree
//	@Tags			map
//	@Produce		json
//	@Param			since	query		string	false	"base64-encoded EventTree; omitted means empty history"
//	@Success		200	{object}	PatchResponse
//	@Failure		400	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/map/diff [get]
func (s *Server) handleMapDiff(w http.ResponseWriter, r *http.Request) {
	since := r.URL.Query().Get("since")
	remoteTime := itc.New()
	if since != "" {
		raw, err := base64.StdEncoding.DecodeString(since)
		if err != nil {
			s.metrics.RecordMapOperation("diff", false)
			sendError(w, "invalid base64 since parameter", http.StatusBadRequest)
			return
		}
		decoded, err := itc.DecodeEventTree(raw)
		if err != nil {
			s.metrics.RecordMapOperation("diff", false)
			sendError(w, fmt.Sprintf("malformed since parameter: %v", err), http.StatusBadRequest)
			return
		}
		remoteTime = decoded
	}

	patch := s.service.MapDiff(remoteTime)
	encoded := itcmap.EncodePatch(patch, func(v MapValue) []byte { return v })
	s.metrics.RecordMapOperation("diff", true)
	sendSuccess(w, PatchResponse{Patch: base64.StdEncoding.EncodeToString(encoded)})
}

// handleMapApply godoc
//
//	@Summary		Apply a patch to the served map
//	@Description	Merges a base64-encoded Patch produced by a peer's diff endpoint
//	@Tags			map
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ApplyRequest	true	"base64-encoded Patch"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/map/apply [post]
func (s *Server) handleMapApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordMapOperation("apply", false)
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Patch)
	if err != nil {
		s.metrics.RecordMapOperation("apply", false)
		sendError(w, "invalid base64 patch", http.StatusBadRequest)
		return
	}
	patch, err := itcmap.DecodePatch(raw, func(b []byte) (MapValue, error) { return MapValue(b), nil })
	if err != nil {
		s.metrics.RecordMapOperation("apply", false)
		sendError(w, fmt.Sprintf("malformed patch: %v", err), http.StatusBadRequest)
		return
	}

	s.service.MapApply(patch)
	s.metrics.RecordMapOperation("apply", true)
	sendSuccess(w, map[string]string{"message": "patch applied"})
}
