// Package cache is an in-process read-through cache split into namespaces.
// Invalidating a namespace bumps its generation, so a load that started
// before a write can never store its stale result afterwards.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	gen       uint64
	expiresAt time.Time
}

type namespace struct {
	gen     uint64
	entries map[string]entry
}

// Store holds values for ttl. A ttl of zero keeps them until the namespace is
// invalidated.
type Store struct {
	ttl    time.Duration
	now    func() time.Time
	flight singleflight.Group

	mu         sync.Mutex
	namespaces map[string]*namespace
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:        ttl,
		now:        time.Now,
		namespaces: make(map[string]*namespace),
	}
}

// Invalidate drops every entry of the given namespaces.
func (s *Store) Invalidate(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		ns := s.namespace(name)
		ns.gen++
		clear(ns.entries)
	}
}

// namespace returns the named namespace, creating it. Callers hold mu.
func (s *Store) namespace(name string) *namespace {
	ns, ok := s.namespaces[name]
	if !ok {
		ns = &namespace{entries: make(map[string]entry)}
		s.namespaces[name] = ns
	}
	return ns
}

func (s *Store) lookup(name, key string) (value any, gen uint64, hit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespace(name)
	e, ok := ns.entries[key]
	if ok && e.gen == ns.gen && (e.expiresAt.IsZero() || s.now().Before(e.expiresAt)) {
		return e.value, ns.gen, true
	}
	if ok {
		delete(ns.entries, key)
	}
	return nil, ns.gen, false
}

// keep stores value unless the namespace moved past gen while it loaded.
func (s *Store) keep(name, key string, gen uint64, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespace(name)
	if ns.gen != gen {
		return
	}
	e := entry{value: value, gen: gen}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	ns.entries[key] = e
}

// Load returns the cached value of key in namespace name or calls loader.
// Concurrent misses on one key share a single loader call; errors are not
// cached.
func Load[T any](ctx context.Context, s *Store, name, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	value, gen, hit := s.lookup(name, key)
	if !hit {
		flightKey := name + "\x00" + strconv.FormatUint(gen, 10) + "\x00" + key
		loaded, err, _ := s.flight.Do(flightKey, func() (any, error) {
			v, err := loader(ctx)
			if err != nil {
				return nil, err
			}
			s.keep(name, key, gen, v)
			return v, nil
		})
		if err != nil {
			return zero, err
		}
		value = loaded
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache %s/%s holds %T", name, key, value)
	}
	return typed, nil
}
