package store

import "bytes"

// mergeIterator walks a sorted snapshot of cached items together with the
// iterator of the backing store. A cached item shadows a parent entry of
// the same key and a deleted cached item hides it.
type mergeIterator struct {
	cached  []item
	parent  Iterator
	reverse bool

	key   []byte
	value []byte
	valid bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []item, parent Iterator, reverse bool) (*mergeIterator, error) {
	it := &mergeIterator{
		cached:  cached,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.advance(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

// before returns true if key a comes first in iteration order.
func (m *mergeIterator) before(a, b []byte) bool {
	if m.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

// advance moves the cursor to the next visible entry.
func (m *mergeIterator) advance() error {
	for {
		hasParent := m.parent.Valid()
		if len(m.cached) == 0 && !hasParent {
			m.valid = false
			m.key, m.value = nil, nil
			return nil
		}

		if len(m.cached) == 0 || (hasParent && m.before(m.parent.Key(), m.cached[0].key)) {
			m.key, m.value, m.valid = m.parent.Key(), m.parent.Value(), true
			return m.parent.Next()
		}

		c := m.cached[0]
		m.cached = m.cached[1:]
		if hasParent && bytes.Equal(m.parent.Key(), c.key) {
			if err := m.parent.Next(); err != nil {
				return err
			}
		}
		if c.deleted {
			continue
		}
		m.key, m.value, m.valid = c.key, c.value, true
		return nil
	}
}

func (m *mergeIterator) Valid() bool {
	return m.valid
}

func (m *mergeIterator) Next() error {
	if !m.valid {
		panic("iterator is not valid")
	}
	return m.advance()
}

func (m *mergeIterator) Key() []byte {
	if !m.valid {
		panic("iterator is not valid")
	}
	return m.key
}

func (m *mergeIterator) Value() []byte {
	if !m.valid {
		panic("iterator is not valid")
	}
	return m.value
}

func (m *mergeIterator) Close() {
	m.parent.Close()
	m.cached = nil
}
