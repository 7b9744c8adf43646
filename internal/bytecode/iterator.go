package bytecode

import "github.com/carbon-lang/carbon/internal/value"

// arrayIterator is the cursor OpIterBegin produces over an Array: it carries
// the underlying slice and a position, advanced in place by IterNext, so
// Array iteration follows the same Object-cursor protocol native/script
// iterables use (spec §3.3's iteration contract).
type arrayIterator struct {
	value.BaseObject
	arr *value.Array
	idx int
}

func newArrayIterator(arr *value.Array) *arrayIterator {
	return &arrayIterator{BaseObject: value.BaseObject{Name: "array-iterator"}, arr: arr}
}

func (it *arrayIterator) IterHasNext(value.Var) (bool, error) {
	return it.idx < len(it.arr.Elems), nil
}

func (it *arrayIterator) IterNext(value.Var) (value.Var, value.Var, error) {
	key := value.Int(int64(it.idx))
	v := it.arr.Elems[it.idx]
	it.idx++
	return key, v, nil
}

// mapIterator is the cursor OpIterBegin produces over a Map: it snapshots
// the map's insertion-ordered keys/values once at IterBegin time, so
// mutating the map mid-loop doesn't reorder or skip entries already queued.
type mapIterator struct {
	value.BaseObject
	keys []value.Var
	vals []value.Var
	idx  int
}

func newMapIterator(keys, vals []value.Var) *mapIterator {
	return &mapIterator{BaseObject: value.BaseObject{Name: "map-iterator"}, keys: keys, vals: vals}
}

func (it *mapIterator) IterHasNext(value.Var) (bool, error) {
	return it.idx < len(it.keys), nil
}

// IterNext binds the loop variable to the key, not the value: a single-
// variable "for (k : m)" over a Map walks its keys, the same as the
// single-variable form over an Array walks elements rather than indices.
func (it *mapIterator) IterNext(value.Var) (value.Var, value.Var, error) {
	k, v := it.keys[it.idx], it.vals[it.idx]
	it.idx++
	return v, k, nil
}
