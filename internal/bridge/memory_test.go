package bridge

import (
	"context"
	"testing"
)

func newTestProcess(t *testing.T) (*Process, *FakeBackend) {
	t.Helper()
	backend := NewFakeBackend()
	d := NewDebugger(backend)
	proc, err := d.AttachByPID(context.Background(), 1234)
	if err != nil {
		t.Fatalf("AttachByPID: %v", err)
	}
	return proc, backend
}

func TestReadString(t *testing.T) {
	proc, backend := newTestProcess(t)
	backend.WriteBytes(0x1000, append([]byte("hello"), 0, 'x'))

	got, err := ReadString(context.Background(), proc, 0x1000, 0)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadString() = %q, want %q", got, "hello")
	}
}

func TestReadPointerWidths(t *testing.T) {
	proc, backend := newTestProcess(t)
	backend.WriteBytes(0x2000, []byte{0xef, 0xbe, 0xad, 0xde, 0, 0, 0, 0})

	got32, err := ReadPointer(context.Background(), proc, 0x2000, PointerWidth32)
	if err != nil {
		t.Fatalf("ReadPointer(32): %v", err)
	}
	if got32 != 0xdeadbeef {
		t.Errorf("ReadPointer(32) = 0x%x, want 0xdeadbeef", got32)
	}

	got64, err := ReadPointer(context.Background(), proc, 0x2000, PointerWidth64)
	if err != nil {
		t.Fatalf("ReadPointer(64): %v", err)
	}
	if got64 != 0xdeadbeef {
		t.Errorf("ReadPointer(64) = 0x%x, want 0xdeadbeef", got64)
	}
}

func TestSearchMemory(t *testing.T) {
	proc, backend := newTestProcess(t)
	backend.WriteBytes(0x3000, []byte{0x01, 0x02, 0xAA, 0xBB, 0x03, 0xAA, 0xBB})

	matches, err := SearchMemory(context.Background(), proc, 0x3000, 7, []byte{0xAA, 0xBB})
	if err != nil {
		t.Fatalf("SearchMemory: %v", err)
	}
	want := []uint64{0x3002, 0x3005}
	if len(matches) != len(want) {
		t.Fatalf("SearchMemory() = %v, want %v", matches, want)
	}
	for i := range want {
		if matches[i] != want[i] {
			t.Errorf("match[%d] = 0x%x, want 0x%x", i, matches[i], want[i])
		}
	}
}

func TestReadUintVariants(t *testing.T) {
	proc, backend := newTestProcess(t)
	backend.WriteBytes(0x4000, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	u8, _ := ReadUint8(context.Background(), proc, 0x4000)
	if u8 != 0x01 {
		t.Errorf("ReadUint8() = 0x%x, want 0x01", u8)
	}
	u16, _ := ReadUint16(context.Background(), proc, 0x4000)
	if u16 != 0x0201 {
		t.Errorf("ReadUint16() = 0x%x, want 0x0201", u16)
	}
	u32, _ := ReadUint32(context.Background(), proc, 0x4000)
	if u32 != 0x04030201 {
		t.Errorf("ReadUint32() = 0x%x, want 0x04030201", u32)
	}
	u64, _ := ReadUint64(context.Background(), proc, 0x4000)
	if u64 != 0x0807060504030201 {
		t.Errorf("ReadUint64() = 0x%x, want 0x0807060504030201", u64)
	}
}
