package digest

import (
	"errors"
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// ErrUnknownDigester is returned when a digester name was never registered.
var ErrUnknownDigester = errors.New("unknown digester")

var registry = cmap.New[Digester]()

func init() {
	Register("sha1", SHA1())
	Register("blake2b-160", BLAKE2b())
}

// Register makes d available under name, replacing any previous
// registration. Safe for concurrent use.
func Register(name string, d Digester) {
	registry.Set(name, d)
}

// Lookup returns the digester registered under name.
func Lookup(name string) (Digester, error) {
	d, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigester, name)
	}
	return d, nil
}

// Names returns the registered digester names in no particular order.
func Names() []string {
	return registry.Keys()
}
