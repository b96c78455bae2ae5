package codec

import (
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"time"
)

// seedHeaderSize is CRC32(4) + Length(4) + Timestamp(8).
const seedHeaderSize = 16

// ErrCorruptRecord is returned for seed records that are truncated or fail their checksum.
var ErrCorruptRecord = errors.New("corrupt seed record")

// SeedRecord is a stored random byte sequence with integrity metadata
type SeedRecord struct {
	CRC32     uint32 // CRC32 checksum for integrity
	Length    uint32 // Size of the data in bytes
	Timestamp uint64 // Unix timestamp in nanoseconds
	Data      []byte // Random bytes
}

// SeedRecordCodec handles serialization and deserialization of seed records
type SeedRecordCodec struct{}

// NewSeedRecordCodec creates a new seed record codec instance
func NewSeedRecordCodec() *SeedRecordCodec {
	return &SeedRecordCodec{}
}

// NewSeedRecord creates a new record with current timestamp. Data longer than
// the 32-bit length field is rejected by Encode.
func NewSeedRecord(data []byte) *SeedRecord {
	return &SeedRecord{
		Length:    uint32(len(data)),
		Timestamp: uint64(time.Now().UnixNano()),
		Data:      data,
	}
}

// Encode serializes a record into the big-endian binary format
// Format: [CRC32(4)][Length(4)][Timestamp(8)][Data]
func (c *SeedRecordCodec) Encode(r *SeedRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("nil seed record")
	}
	if err := checkSeedSize(len(r.Data)); err != nil {
		return nil, err
	}
	if int(r.Length) != len(r.Data) {
		return nil, fmt.Errorf("seed length %d does not match data size %d", r.Length, len(r.Data))
	}
	r.CRC32 = r.calculateCRC32()

	buf := make([]byte, 0, r.Size())
	buf = append(buf, Uint32ToBytes(r.CRC32)...)
	buf = append(buf, r.header()...)
	buf = append(buf, r.Data...)

	return buf, nil
}

// Decode deserializes a binary seed record. Bytes past the declared length are ignored.
func (c *SeedRecordCodec) Decode(data []byte) (*SeedRecord, error) {
	if len(data) < seedHeaderSize {
		return nil, fmt.Errorf("%w: data too short for header: %d < %d", ErrCorruptRecord, len(data), seedHeaderSize)
	}

	r := &SeedRecord{}
	var err error
	if r.CRC32, err = BytesToUint32(data[0:4]); err != nil {
		return nil, err
	}
	if r.Length, err = BytesToUint32(data[4:8]); err != nil {
		return nil, err
	}
	hi, err := BytesToUint32(data[8:12])
	if err != nil {
		return nil, err
	}
	lo, err := BytesToUint32(data[12:16])
	if err != nil {
		return nil, err
	}
	r.Timestamp = uint64(hi)<<32 | uint64(lo)

	if uint64(len(data)-seedHeaderSize) < uint64(r.Length) {
		return nil, fmt.Errorf("%w: data too short for declared length: %d < %d",
			ErrCorruptRecord, len(data)-seedHeaderSize, r.Length)
	}
	r.Data = data[seedHeaderSize : seedHeaderSize+int(r.Length)]

	return r, nil
}

// checkSeedSize reports whether n bytes fit the record's 32-bit length field.
func checkSeedSize(n int) error {
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("seed data too large: %d bytes", n)
	}
	return nil
}

// Validate checks the integrity of a record using CRC32
func (r *SeedRecord) Validate() error {
	if sum := r.calculateCRC32(); r.CRC32 != sum {
		return fmt.Errorf("%w: CRC32 mismatch: %d != %d", ErrCorruptRecord, r.CRC32, sum)
	}
	return nil
}

// Size returns the total size of the record when encoded
func (r *SeedRecord) Size() int {
	return seedHeaderSize + len(r.Data)
}

// CreatedAt returns the record timestamp as a time.Time
func (r *SeedRecord) CreatedAt() time.Time {
	return time.Unix(0, int64(r.Timestamp))
}

// header returns Length and Timestamp in wire order
func (r *SeedRecord) header() []byte {
	h := make([]byte, 0, seedHeaderSize-4)
	h = append(h, Uint32ToBytes(r.Length)...)
	h = append(h, Uint32ToBytes(uint32(r.Timestamp>>32))...)
	h = append(h, Uint32ToBytes(uint32(r.Timestamp))...)
	return h
}

// calculateCRC32 covers everything except the CRC field itself
func (r *SeedRecord) calculateCRC32() uint32 {
	crc := crc32.NewIEEE()
	_, _ = crc.Write(r.header())
	_, _ = crc.Write(r.Data)
	return crc.Sum32()
}
