package atomicops

// Flags64 is an atomic set of up to 64 bit flags.
type Flags64 struct {
	v uint64
}

// Set atomically raises the bits in mask.
func (f *Flags64) Set(mask uint64) { Set(&f.v, mask) }

// Clear atomically lowers the bits in mask.
func (f *Flags64) Clear(mask uint64) { Clear(&f.v, mask) }

// Test reports whether every bit in mask is raised.
func (f *Flags64) Test(mask uint64) bool { return LoadAcquire(&f.v)&mask == mask }

// TestAny reports whether any bit in mask is raised.
func (f *Flags64) TestAny(mask uint64) bool { return LoadAcquire(&f.v)&mask != 0 }

// Load returns the whole flag word.
func (f *Flags64) Load() uint64 { return LoadAcquire(&f.v) }

// Flags32 is an atomic set of up to 32 bit flags.
type Flags32 struct {
	v uint32
}

// Set atomically raises the bits in mask.
func (f *Flags32) Set(mask uint32) { Set(&f.v, mask) }

// Clear atomically lowers the bits in mask.
func (f *Flags32) Clear(mask uint32) { Clear(&f.v, mask) }

// Test reports whether every bit in mask is raised.
func (f *Flags32) Test(mask uint32) bool { return LoadAcquire(&f.v)&mask == mask }

// TestAny reports whether any bit in mask is raised.
func (f *Flags32) TestAny(mask uint32) bool { return LoadAcquire(&f.v)&mask != 0 }

// Load returns the whole flag word.
func (f *Flags32) Load() uint32 { return LoadAcquire(&f.v) }
