package atomicops

// Value is an atomic cell of width T. The zero Value holds zero.
//
// Don't add fields: a Value must stay the same size as its builtin
// analogue so it can live inside packed layouts such as shared memory
// headers.
type Value[T Uint] struct {
	v T
}

// Load returns the current value.
func (x *Value[T]) Load() T { return LoadAcquire(&x.v) }

// Store replaces the current value with v.
func (x *Value[T]) Store(v T) { StoreRelease(&x.v, v) }

// Set atomically ors v into the cell.
func (x *Value[T]) Set(v T) { Set(&x.v, v) }

// Clear atomically clears the bits of v from the cell.
func (x *Value[T]) Clear(v T) { Clear(&x.v, v) }

// FetchAdd adds v and returns the pre-addition value.
func (x *Value[T]) FetchAdd(v T) T { return FetchAdd(&x.v, v) }

// FetchSubtract subtracts v and returns the pre-subtraction value.
func (x *Value[T]) FetchSubtract(v T) T { return FetchSubtract(&x.v, v) }

// CompareAndSwap replaces the value with new if it equals old.
func (x *Value[T]) CompareAndSwap(old, new T) bool {
	return CompareAndSwap(&x.v, old, new)
}

// ReadAndClear exchanges the value with zero and returns the prior value.
func (x *Value[T]) ReadAndClear() T { return ReadAndClear(&x.v) }
