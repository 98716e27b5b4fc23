package bridge

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// DefaultMaxStringLength bounds ReadString when the caller passes 0.
const DefaultMaxStringLength = 4096

// ReadString reads a length-bounded null-terminated string starting at addr.
func ReadString(ctx context.Context, p *Process, addr uint64, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	data, err := p.ReadMemory(ctx, addr, maxLen)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data), nil
}

// PointerWidth is the address width of the target, used to size ReadPointer.
type PointerWidth int

const (
	PointerWidth32 PointerWidth = 4
	PointerWidth64 PointerWidth = 8
)

// ReadPointer reads a pointer-sized value at addr, sized to width.
func ReadPointer(ctx context.Context, p *Process, addr uint64, width PointerWidth) (uint64, error) {
	data, err := p.ReadMemory(ctx, addr, int(width))
	if err != nil {
		return 0, err
	}
	switch width {
	case PointerWidth32:
		return uint64(binary.LittleEndian.Uint32(data)), nil
	case PointerWidth64:
		return binary.LittleEndian.Uint64(data), nil
	default:
		return 0, fmt.Errorf("unsupported pointer width %d", width)
	}
}

// ReadUint8 reads one byte at addr.
func ReadUint8(ctx context.Context, p *Process, addr uint64) (uint8, error) {
	data, err := p.ReadMemory(ctx, addr, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// ReadUint16 reads a little-endian 16-bit integer at addr.
func ReadUint16(ctx context.Context, p *Process, addr uint64) (uint16, error) {
	data, err := p.ReadMemory(ctx, addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data), nil
}

// ReadUint32 reads a little-endian 32-bit integer at addr.
func ReadUint32(ctx context.Context, p *Process, addr uint64) (uint32, error) {
	data, err := p.ReadMemory(ctx, addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadUint64 reads a little-endian 64-bit integer at addr.
func ReadUint64(ctx context.Context, p *Process, addr uint64) (uint64, error) {
	data, err := p.ReadMemory(ctx, addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// SearchMemory performs a linear byte-pattern search over [start, start+length)
// and returns every match offset (absolute addresses).
func SearchMemory(ctx context.Context, p *Process, start uint64, length int, pattern []byte) ([]uint64, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("empty search pattern")
	}
	data, err := p.ReadMemory(ctx, start, length)
	if err != nil {
		return nil, err
	}
	var matches []uint64
	for offset := 0; ; {
		idx := bytes.Index(data[offset:], pattern)
		if idx < 0 {
			break
		}
		matches = append(matches, start+uint64(offset+idx))
		offset += idx + 1
		if offset >= len(data) {
			break
		}
	}
	return matches, nil
}

// EnumerateMemoryRegions lists the process's mapped regions.
func EnumerateMemoryRegions(ctx context.Context, p *Process) ([]models.MemoryRegion, error) {
	rb, ok := p.backend.(MemoryRegionBackend)
	if !ok {
		return nil, fmt.Errorf("backend does not support memory region enumeration")
	}
	return rb.EnumerateMemoryRegions(ctx, p.handle)
}

// MemoryRegionBackend is the optional Backend capability for region enumeration.
type MemoryRegionBackend interface {
	EnumerateMemoryRegions(ctx context.Context, h ProcessHandle) ([]models.MemoryRegion, error)
}
