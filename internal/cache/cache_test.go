package cache

import (
	"sync"
	"sync/atomic"
	"testing"
)

type entry struct {
	Value string `json:"value"`
}

func TestGetSetRoundTrip(t *testing.T) {
	c := New(t.TempDir(), nil)
	key := Key("show pc", "ctx", "act")

	if c.Get(key, &entry{}) {
		t.Fatal("expected miss before any Set")
	}

	c.Set(key, entry{Value: "0x1000"})

	var got entry
	if !c.Get(key, &got) {
		t.Fatal("expected hit after Set")
	}
	if got.Value != "0x1000" {
		t.Fatalf("got %q, want 0x1000", got.Value)
	}
}

func TestContentKeySuffixConvention(t *testing.T) {
	k1 := ContentKey([]byte("int main(){}"), "")
	k2 := ContentKey([]byte("int main(){}"), "region")
	if k2 != k1+"_region" {
		t.Fatalf("ContentKey suffix form = %q, want %q", k2, k1+"_region")
	}
}

func TestKeyIsDeterministicAndNormalizesWhitespace(t *testing.T) {
	a := Key(" show pc ", "ctx", "act")
	b := Key("show pc", "ctx", "act")
	if a != b {
		t.Fatalf("keys differ after whitespace normalization: %q vs %q", a, b)
	}
	if len(a) != keyHexLen {
		t.Fatalf("key length = %d, want %d", len(a), keyHexLen)
	}
}

func TestCorruptEntryIsTreatedAsMiss(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	key := "deadbeefdeadbeef"
	if err := c.storage.Set(key, "not-an-object-in-target-type"); err != nil {
		t.Fatal(err)
	}
	var out struct{ Value string }
	if c.Get(key, &out) {
		t.Fatal("expected type-mismatched JSON to be treated as a miss")
	}
}

func TestClearRemovesAllEntries(t *testing.T) {
	c := New(t.TempDir(), nil)
	c.Set(Key("a", "", "x"), entry{Value: "1"})
	c.Set(Key("b", "", "x"), entry{Value: "2"})

	keys, _ := c.ListKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	keys, _ = c.ListKeys()
	if len(keys) != 0 {
		t.Fatalf("expected 0 keys after Clear, got %d", len(keys))
	}
}

func TestCoalesceCollapsesConcurrentMisses(t *testing.T) {
	c := New(t.TempDir(), nil)
	var calls int32

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Coalesce("shared-key", func() (any, bool, error) {
				atomic.AddInt32(&calls, 1)
				return "computed", true, nil
			})
			if err != nil {
				t.Error(err)
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if calls == 0 {
		t.Fatal("compute was never called")
	}
	for _, r := range results {
		if r != "computed" {
			t.Fatalf("got %v, want computed", r)
		}
	}
}

func TestCoalesceDoesNotStoreUncacheableResult(t *testing.T) {
	c := New(t.TempDir(), nil)
	key := "not-cacheable"

	v, err := c.Coalesce(key, func() (any, bool, error) {
		return "failed-attempt", false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if v != "failed-attempt" {
		t.Fatalf("got %v, want failed-attempt", v)
	}

	var out string
	if c.Get(key, &out) {
		t.Fatal("expected uncacheable result not to be written to storage")
	}
}
