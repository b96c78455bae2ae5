package api

import (
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/octet/pkg/codec"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port            int
	Bind            string
	APIKey          string // X-API-Key value; empty disables authentication
	MaxRandomLength int    // Largest random draw a single request may ask for
	AllowedOrigins  []string
}

// TextRequest carries a string to encode
type TextRequest struct {
	Text string `json:"text"`
}

// HexRequest carries hex-encoded bytes to decode
type HexRequest struct {
	Hex string `json:"hex"`
}

// BytesResponse returns encoded bytes as lowercase hex
type BytesResponse struct {
	Hex    string `json:"hex"`
	Length int    `json:"length"`
}

// TextResponse returns decoded text
type TextResponse struct {
	Text string `json:"text"`
}

// Uint32Response returns a decoded unsigned integer
type Uint32Response struct {
	Value uint32 `json:"value"`
}

// RandomRequest asks for a random byte sequence, optionally stored in the seed vault
type RandomRequest struct {
	Length int  `json:"length"`
	Save   bool `json:"save"`
}

// RandomResponse returns random bytes and, when saved, the seed id
type RandomResponse struct {
	Hex    string `json:"hex"`
	Length int    `json:"length"`
	ID     string `json:"id,omitempty"`
}

// SeedResponse describes a stored seed
type SeedResponse struct {
	ID        string    `json:"id"`
	Hex       string    `json:"hex"`
	Length    int       `json:"length"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse reports the active codec configuration
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
	UTF8   string `json:"utf8"`
	Random bool   `json:"random"`
	Vault  bool   `json:"vault"`
}

// ISeedVault defines the seed storage operations the API needs
type ISeedVault interface {
	Create(data []byte) (ksuid.KSUID, error)
	Read(id ksuid.KSUID) (*codec.SeedRecord, error)
	Delete(id ksuid.KSUID) error
	Close() error
}

// RandomSource draws random byte sequences; *codec.Random implements it
type RandomSource interface {
	Bytes(length int) []byte
	Available() bool
}
