package expr

// Hashable is a key usable in a Map. HashCode may collide; EqualI
// disambiguates within a bucket.
type Hashable interface {
	HashCode() uint64
	EqualI(o Hashable) bool
}

// Map is a hash map keyed by Hashable values, used to memoize work
// keyed on expressions or operations.
type Map map[uint64][]mapEntry

type mapEntry struct {
	k Hashable
	v interface{}
}

func (m Map) Find(k Hashable) (interface{}, bool) {
	s, ok := m[k.HashCode()]
	if !ok {
		return nil, false
	}
	for _, x := range s {
		if x.k.EqualI(k) {
			return x.v, true
		}
	}
	return nil, false
}

func (m Map) Set(k Hashable, v interface{}) {
	h := k.HashCode()
	s := m[h]
	for i, x := range s {
		if x.k.EqualI(k) {
			s[i].v = v
			return
		}
	}
	m[h] = append(s, mapEntry{k: k, v: v})
}

// Add inserts only when the key is absent.
func (m Map) Add(k Hashable, v interface{}) {
	h := k.HashCode()
	s := m[h]
	for _, x := range s {
		if x.k.EqualI(k) {
			return
		}
	}
	m[h] = append(s, mapEntry{k: k, v: v})
}

func (m Map) Clear() {
	for k := range m {
		delete(m, k)
	}
}
