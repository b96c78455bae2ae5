package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/octet/pkg/codec"
	"github.com/ssargent/octet/pkg/storage"
	"go.uber.org/zap"
)

const (
	maxRequestBodyBytes    = 1 << 20
	defaultMaxRandomLength = 65536
)

// Server holds the API server state
type Server struct {
	vault   ISeedVault
	random  RandomSource
	config  ServerConfig
	metrics *Metrics
	logger  *zap.Logger
}

// NewServer creates a new API server. vault may be nil, in which case
// seed storage is unavailable.
func NewServer(vault ISeedVault, random RandomSource, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		vault:   vault,
		random:  random,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeHexBody reads a HexRequest and returns the decoded bytes. On failure
// it has already written a 400 response.
func (s *Server) decodeHexBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var req HexRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return nil, false
	}
	b, err := hex.DecodeString(req.Hex)
	if err != nil {
		sendError(w, "Invalid hex: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return b, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, HealthResponse{
		Status: "healthy",
		Mode:   codec.CurrentMode().String(),
		UTF8:   codec.DefaultUTF8Codec().Name(),
		Random: s.random != nil && s.random.Available(),
		Vault:  s.vault != nil,
	})
}

func (s *Server) handleUTF8Encode(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.metrics.RecordCodecOperation("utf8_encode", false)
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	b := codec.UTF8Encode(req.Text)
	s.metrics.RecordCodecOperation("utf8_encode", true)
	sendSuccess(w, BytesResponse{Hex: hex.EncodeToString(b), Length: len(b)})
}

func (s *Server) handleUTF8Decode(w http.ResponseWriter, r *http.Request) {
	b, ok := s.decodeHexBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("utf8_decode", false)
		return
	}
	text, err := codec.UTF8Decode(b)
	if err != nil {
		s.metrics.RecordCodecOperation("utf8_decode", false)
		if errors.Is(err, codec.ErrDecode) {
			sendError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		sendError(w, "Failed to decode", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordCodecOperation("utf8_decode", true)
	sendSuccess(w, TextResponse{Text: text})
}

func (s *Server) handleLatin1Encode(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.metrics.RecordCodecOperation("latin1_encode", false)
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	b, err := codec.StringToBytes(req.Text)
	if err != nil {
		s.metrics.RecordCodecOperation("latin1_encode", false)
		if errors.Is(err, codec.ErrInvalidByteRange) {
			sendError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		sendError(w, "Failed to encode", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordCodecOperation("latin1_encode", true)
	sendSuccess(w, BytesResponse{Hex: hex.EncodeToString(b), Length: len(b)})
}

func (s *Server) handleLatin1Decode(w http.ResponseWriter, r *http.Request) {
	b, ok := s.decodeHexBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("latin1_decode", false)
		return
	}
	s.metrics.RecordCodecOperation("latin1_decode", true)
	sendSuccess(w, TextResponse{Text: codec.BytesToString(b)})
}

func (s *Server) handleUint32(w http.ResponseWriter, r *http.Request) {
	b, ok := s.decodeHexBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("uint32", false)
		return
	}
	v, err := codec.BytesToUint32(b)
	if err != nil {
		s.metrics.RecordCodecOperation("uint32", false)
		if errors.Is(err, codec.ErrInvalidLength) {
			sendError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		sendError(w, "Failed to decode", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordCodecOperation("uint32", true)
	sendSuccess(w, Uint32Response{Value: v})
}

func (s *Server) maxRandomLength() int {
	if s.config.MaxRandomLength > 0 {
		return min(s.config.MaxRandomLength, codec.MaxRandomLength)
	}
	return defaultMaxRandomLength
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	var req RandomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if req.Length < 0 || req.Length > s.maxRandomLength() {
		sendError(w, "Length out of range", http.StatusBadRequest)
		return
	}
	if req.Save && s.vault == nil {
		sendError(w, "Seed vault not configured", http.StatusServiceUnavailable)
		return
	}

	var b []byte
	if s.random != nil {
		b = s.random.Bytes(req.Length)
	}
	if b == nil {
		s.metrics.RecordCodecOperation("random", false)
		s.logger.Warn("no random source available", zap.Int("length", req.Length))
		sendError(w, "No random source available", http.StatusServiceUnavailable)
		return
	}
	s.metrics.RecordCodecOperation("random", true)
	s.metrics.RecordRandomBytes(len(b))

	resp := RandomResponse{Hex: hex.EncodeToString(b), Length: len(b)}
	if req.Save {
		id, err := s.vault.Create(b)
		s.metrics.RecordSeedOperation("create", err == nil)
		if err != nil {
			s.logger.Error("failed to store seed", zap.Error(err))
			sendError(w, "Failed to store seed", http.StatusInternalServerError)
			return
		}
		resp.ID = id.String()
	}
	sendSuccess(w, resp)
}

// seedID parses the {id} URL parameter. On failure it has already written the
// error response.
func (s *Server) seedID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	if s.vault == nil {
		sendError(w, "Seed vault not configured", http.StatusServiceUnavailable)
		return ksuid.Nil, false
	}
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid seed id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetSeed(w http.ResponseWriter, r *http.Request) {
	id, ok := s.seedID(w, r)
	if !ok {
		return
	}
	record, err := s.vault.Read(id)
	if err != nil {
		s.metrics.RecordSeedOperation("read", false)
		if errors.Is(err, storage.ErrNotFound) {
			sendError(w, "Seed not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to read seed", zap.Stringer("id", id), zap.Error(err))
		sendError(w, "Failed to read seed", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordSeedOperation("read", true)
	sendSuccess(w, SeedResponse{
		ID:        id.String(),
		Hex:       hex.EncodeToString(record.Data),
		Length:    len(record.Data),
		CreatedAt: record.CreatedAt(),
	})
}

func (s *Server) handleDeleteSeed(w http.ResponseWriter, r *http.Request) {
	id, ok := s.seedID(w, r)
	if !ok {
		return
	}
	if err := s.vault.Delete(id); err != nil {
		s.metrics.RecordSeedOperation("delete", false)
		if errors.Is(err, storage.ErrNotFound) {
			sendError(w, "Seed not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to delete seed", zap.Stringer("id", id), zap.Error(err))
		sendError(w, "Failed to delete seed", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordSeedOperation("delete", true)
	sendSuccess(w, map[string]string{"status": "deleted", "id": id.String()})
}
