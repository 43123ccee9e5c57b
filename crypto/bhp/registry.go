package bhp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vocdoni/gnark-bhp/log"
	"golang.org/x/sync/singleflight"
)

// TableStore persists derived base tables across processes.
type TableStore interface {
	// Load returns the stored table or ErrTableNotFound.
	Load(params Parameters, domain string) (*BaseTable, error)
	Store(table *BaseTable) error
}

type registryKey struct {
	params Parameters
	domain string
}

// Registry derives every (parameters, domain) table at most once per process
// and shares it among callers.
type Registry struct {
	mu     sync.RWMutex
	tables map[registryKey]*BaseTable
	group  singleflight.Group
	store  TableStore
}

// NewRegistry returns an empty registry. The store is optional.
func NewRegistry(store TableStore) *Registry {
	return &Registry{
		tables: make(map[registryKey]*BaseTable),
		store:  store,
	}
}

var defaultRegistry = NewRegistry(nil)

// Setup returns the process wide table of params and domain.
func Setup(params Parameters, domain string) (*BaseTable, error) {
	return defaultRegistry.Setup(params, domain)
}

// Setup returns the table of params and domain, deriving it on first use.
// Concurrent callers for the same key wait for a single derivation.
func (r *Registry) Setup(params Parameters, domain string) (*BaseTable, error) {
	key := registryKey{params: params, domain: domain}
	r.mu.RLock()
	t, ok := r.tables[key]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}
	v, err, _ := r.group.Do(fmt.Sprintf("%s/%q", params, domain), func() (any, error) {
		r.mu.RLock()
		t, ok := r.tables[key]
		r.mu.RUnlock()
		if ok {
			return t, nil
		}
		t, err := r.load(params, domain)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tables[key] = t
		r.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*BaseTable), nil
}

// Hasher returns a native Hasher over the table of params and domain.
func (r *Registry) Hasher(params Parameters, domain string) (*Hasher, error) {
	t, err := r.Setup(params, domain)
	if err != nil {
		return nil, err
	}
	return NewHasher(t), nil
}

func (r *Registry) load(params Parameters, domain string) (*BaseTable, error) {
	if r.store != nil {
		t, err := r.store.Load(params, domain)
		switch {
		case err == nil:
			log.Debugw("bhp base table loaded", "params", params.String(), "domain", domain)
			return t, nil
		case !errors.Is(err, ErrTableNotFound):
			log.Warnw("bhp base table store load failed, deriving", "params", params.String(), "domain", domain, "error", err)
		}
	}
	t, err := Derive(params, domain)
	if err != nil {
		return nil, err
	}
	if r.store != nil {
		if err := r.store.Store(t); err != nil {
			log.Warnw("bhp base table not stored", "params", params.String(), "domain", domain, "error", err)
		}
	}
	return t, nil
}
