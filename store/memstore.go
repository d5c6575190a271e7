package store

import (
	"bytes"

	"github.com/google/btree"
)

// degree is the branching factor of the underlying btree.
const degree = 2

// MemStore returns a btree-backed KVStore kept entirely in memory. There is
// no persistence here. It is used as the test backend and for embedding the
// registry without a database.
func MemStore() KVStore {
	return &memStore{
		bt: btree.New(degree),
	}
}

type memStore struct {
	bt *btree.BTree
}

var _ KVStore = (*memStore)(nil)

// Get reads the item stored under given key, nil if the key was never set.
func (m *memStore) Get(key []byte) ([]byte, error) {
	assertValidKey(key)
	res := m.bt.Get(bkey{key})
	if res == nil {
		return nil, nil
	}
	return res.(setItem).value, nil
}

// Has checks if the key was set.
func (m *memStore) Has(key []byte) (bool, error) {
	assertValidKey(key)
	return m.bt.Has(bkey{key}), nil
}

// Set writes the value under given key, overwriting any previous value.
func (m *memStore) Set(key, value []byte) error {
	assertValidKey(key)
	m.bt.ReplaceOrInsert(newSetItem(key, value))
	return nil
}

// Delete removes the key. Deleting a missing key is a noop.
func (m *memStore) Delete(key []byte) error {
	assertValidKey(key)
	m.bt.Delete(bkey{key})
	return nil
}

// Iterator over a domain of keys in ascending order. The iterator operates
// on a snapshot of the matching range, so writes done while iterating are
// not observed.
func (m *memStore) Iterator(start, end []byte) (Iterator, error) {
	var data []Model
	collect := func(item btree.Item) bool {
		it := item.(setItem)
		data = append(data, Model{Key: it.key, Value: it.value})
		return true
	}
	switch {
	case start == nil && end == nil:
		m.bt.Ascend(collect)
	case start == nil:
		m.bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		m.bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		m.bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return NewSliceIterator(data), nil
}

// ReverseIterator over a domain of keys in descending order.
func (m *memStore) ReverseIterator(start, end []byte) (Iterator, error) {
	var data []Model
	collect := func(item btree.Item) bool {
		it := item.(setItem)
		data = append(data, Model{Key: it.key, Value: it.value})
		return true
	}
	switch {
	case start == nil && end == nil:
		m.bt.Descend(collect)
	case start == nil:
		m.bt.DescendLessOrEqual(bkeyLess{end}, collect)
	case end == nil:
		m.bt.DescendGreaterThan(bkeyLess{start}, collect)
	default:
		m.bt.DescendRange(bkeyLess{end}, bkeyLess{start}, collect)
	}
	return NewSliceIterator(data), nil
}

func assertValidKey(key []byte) {
	if key == nil {
		panic("nil key is not allowed")
	}
}

/////////////////////////////////////////////////////////
// Items held in the btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item and is used for queries
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}

// bkeyLess is used to change how ranges are matched....
// use as a key, so exact match is just above this, anything below is below
type bkeyLess struct {
	key []byte
}

var _ keyer = bkeyLess{}
var _ btree.Item = bkeyLess{}

func (k bkeyLess) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkeyLess) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) <= 0
}
