package bhp

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-bhp/internal/testutil"
)

type memoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	loads  atomic.Int32
	stores atomic.Int32
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (s *memoryStore) Load(params Parameters, domain string) (*BaseTable, error) {
	s.loads.Add(1)
	s.mu.Lock()
	data, ok := s.data[params.String()+domain]
	s.mu.Unlock()
	if !ok {
		return nil, ErrTableNotFound
	}
	return DecodeTable(data, params, domain)
}

func (s *memoryStore) Store(t *BaseTable) error {
	s.stores.Add(1)
	data, err := t.MarshalCBOR()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[t.Parameters().String()+t.Domain()] = data
	s.mu.Unlock()
	return nil
}

func TestRegistryConcurrentSetup(t *testing.T) {
	c := qt.New(t)
	store := newMemoryStore()
	r := NewRegistry(store)
	params := Parameters{NumWindows: 6, WindowSize: 10}

	const callers = 16
	tables := make([]*BaseTable, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Go(func() {
			table, err := r.Setup(params, testutil.Domain)
			if err == nil {
				tables[i] = table
			}
		})
	}
	wg.Wait()
	for i := range tables {
		c.Assert(tables[i], qt.IsNotNil)
		c.Assert(tables[i] == tables[0], qt.IsTrue)
	}
	c.Assert(store.loads.Load(), qt.Equals, int32(1))
	c.Assert(store.stores.Load(), qt.Equals, int32(1))

	// A fresh registry over the same store loads instead of deriving.
	r2 := NewRegistry(store)
	loaded, err := r2.Setup(params, testutil.Domain)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.Equal(tables[0]), qt.IsTrue)
	c.Assert(store.stores.Load(), qt.Equals, int32(1))

	h, err := r2.Hasher(params, testutil.Domain)
	c.Assert(err, qt.IsNil)
	c.Assert(h.Table() == loaded, qt.IsTrue)
}

func TestRegistrySetupError(t *testing.T) {
	c := qt.New(t)
	r := NewRegistry(nil)
	_, err := r.Setup(Parameters{NumWindows: 0, WindowSize: 1}, testutil.Domain)
	c.Assert(errors.Is(err, ErrInvalidParameters), qt.IsTrue)
}

func TestDecodeTable(t *testing.T) {
	c := qt.New(t)
	params := Parameters{NumWindows: 3, WindowSize: 4}
	table, err := Setup(params, testutil.Domain)
	c.Assert(err, qt.IsNil)
	data, err := table.MarshalCBOR()
	c.Assert(err, qt.IsNil)

	again, err := table.MarshalCBOR()
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, data)

	decoded, err := DecodeTable(data, params, testutil.Domain)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded.Equal(table), qt.IsTrue)
	for w := range params.NumWindows {
		for j := range params.WindowSize {
			got, want := decoded.MontgomeryLookup(w, j), table.MontgomeryLookup(w, j)
			c.Assert(got, qt.Equals, want)
		}
	}

	_, err = DecodeTable(data, Parameters{NumWindows: 3, WindowSize: 5}, testutil.Domain)
	c.Assert(errors.Is(err, ErrParameterMismatch), qt.IsTrue)
	_, err = DecodeTable(data, params, "other")
	c.Assert(err, qt.ErrorMatches, `decode base table: domain .*`)
	_, err = DecodeTable([]byte{0xff}, params, testutil.Domain)
	c.Assert(err, qt.IsNotNil)
}

func TestDecodeTableRejectsForeignBases(t *testing.T) {
	c := qt.New(t)
	params := Parameters{NumWindows: 3, WindowSize: 4}
	honest, err := Derive(params, testutil.Domain)
	c.Assert(err, qt.IsNil)

	// G1 = 2·G0 passes every structural check but has a known relation.
	gens := honest.Generators()
	gens[1].Double(&gens[0])
	forged, err := NewBaseTable(params, testutil.Domain, gens, honest.RandomBase())
	c.Assert(err, qt.IsNil)
	data, err := forged.MarshalCBOR()
	c.Assert(err, qt.IsNil)
	_, err = DecodeTable(data, params, testutil.Domain)
	c.Assert(errors.Is(err, ErrSetup), qt.IsTrue)
	c.Assert(errors.Is(err, ErrForeignBase), qt.IsTrue)
	var setupErr *SetupError
	c.Assert(errors.As(err, &setupErr), qt.IsTrue)
	c.Assert(setupErr.Window, qt.Equals, 1)

	// A randomizer base taken from another domain is rejected too.
	other, err := Derive(params, "other")
	c.Assert(err, qt.IsNil)
	forged, err = NewBaseTable(params, testutil.Domain, honest.Generators(), other.RandomBase())
	c.Assert(err, qt.IsNil)
	data, err = forged.MarshalCBOR()
	c.Assert(err, qt.IsNil)
	_, err = DecodeTable(data, params, testutil.Domain)
	c.Assert(errors.As(err, &setupErr), qt.IsTrue)
	c.Assert(setupErr.Window, qt.Equals, RandomizerIndex)

	// The registry derives the honest table and overwrites the record.
	store := newMemoryStore()
	forged, err = NewBaseTable(params, testutil.Domain, gens, honest.RandomBase())
	c.Assert(err, qt.IsNil)
	c.Assert(store.Store(forged), qt.IsNil)
	got, err := NewRegistry(store).Setup(params, testutil.Domain)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Equal(honest), qt.IsTrue)
	c.Assert(store.stores.Load(), qt.Equals, int32(2))

	reloaded, err := NewRegistry(store).Setup(params, testutil.Domain)
	c.Assert(err, qt.IsNil)
	c.Assert(reloaded.Equal(honest), qt.IsTrue)
	c.Assert(store.stores.Load(), qt.Equals, int32(2))
}
