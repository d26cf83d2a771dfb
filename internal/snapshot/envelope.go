// Package snapshot кодирует snapshot-записи локального хранилища.
//
// Формат файла:
//
//	magic "RKSN" | format version (1 byte) | flags (1 byte) | blake2b-256 checksum (32 bytes) | payload
//
// Payload - protobuf-запись (см. records.go), при flagZstd сжатая zstd.
// Checksum считается по payload в том виде, в котором он лежит на диске.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

// ErrCorrupt indicates that stored bytes are not a valid snapshot
var ErrCorrupt = errors.New("corrupt snapshot")

const (
	magic         = "RKSN"
	formatVersion = 1

	flagZstd = 1 << 0

	headerSize = len(magic) + 2 + blake2b.Size256

	// compressThreshold payload меньше этого размера не сжимается
	compressThreshold = 512
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

// Seal wraps a record payload into the on-disk envelope
func Seal(payload []byte) []byte {
	var flags byte
	body := payload
	if len(payload) >= compressThreshold {
		body = encoder.EncodeAll(payload, make([]byte, 0, len(payload)/2))
		flags |= flagZstd
	}

	sum := blake2b.Sum256(body)

	out := make([]byte, 0, headerSize+len(body))
	out = append(out, magic...)
	out = append(out, formatVersion, flags)
	out = append(out, sum[:]...)
	out = append(out, body...)
	return out
}

// Open verifies the envelope and returns the record payload
func Open(data []byte) ([]byte, error) {
	flags, sum, body, err := split(data)
	if err != nil {
		return nil, err
	}

	if err := verify(sum, body); err != nil {
		return nil, err
	}

	if flags&flagZstd == 0 {
		return body, nil
	}

	payload, err := decoder.DecodeAll(body, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	return payload, nil
}

// Checksum verifies the envelope checksum against the stored payload and returns it.
// Unlike Open it does not decompress, so it is a cheap identity of the snapshot content.
func Checksum(data []byte) ([blake2b.Size256]byte, error) {
	_, sum, body, err := split(data)
	if err != nil {
		return sum, err
	}
	return sum, verify(sum, body)
}

func verify(sum [blake2b.Size256]byte, body []byte) error {
	if got := blake2b.Sum256(body); got != sum {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return nil
}

func split(data []byte) (byte, [blake2b.Size256]byte, []byte, error) {
	var sum [blake2b.Size256]byte
	if len(data) < headerSize {
		return 0, sum, nil, fmt.Errorf("%w: too short (%d bytes)", ErrCorrupt, len(data))
	}
	if !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return 0, sum, nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if v := data[len(magic)]; v != formatVersion {
		return 0, sum, nil, fmt.Errorf("%w: unsupported format version %d", ErrCorrupt, v)
	}
	flags := data[len(magic)+1]
	copy(sum[:], data[len(magic)+2:headerSize])
	return flags, sum, data[headerSize:], nil
}
