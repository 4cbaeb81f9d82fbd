package morph

// Registry is the ordered set of keys known for the active avatar.
// It is never modified after construction; a new avatar gets a new Registry.
type Registry struct {
	keys []Key
	set  map[Key]struct{}
}

// NewRegistry copies keys, dropping duplicates and empty names while keeping
// the first-seen order.
func NewRegistry(keys []Key) *Registry {
	r := &Registry{
		keys: make([]Key, 0, len(keys)),
		set:  make(map[Key]struct{}, len(keys)),
	}
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := r.set[k]; ok {
			continue
		}
		r.set[k] = struct{}{}
		r.keys = append(r.keys, k)
	}
	return r
}

func (r *Registry) Contains(k Key) bool {
	if r == nil {
		return false
	}
	_, ok := r.set[k]
	return ok
}

// Keys returns a copy in registration order.
func (r *Registry) Keys() []Key {
	if r == nil {
		return nil
	}
	return append([]Key(nil), r.keys...)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Each calls fn for every key in order.
func (r *Registry) Each(fn func(Key)) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		fn(k)
	}
}
