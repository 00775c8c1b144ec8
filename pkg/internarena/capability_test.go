package internarena

import "github.com/Voskan/internarena/pkg/key"

// Compile-time assertions that the sealed capability hierarchy is actually
// satisfied by the types meant to implement it.
var (
	_ Interner[key.KeyPtr] = (*Rodeo[key.KeyPtr, *key.KeyPtr])(nil)
	_ Interner[key.KeyPtr] = (*ThreadedRodeo[key.KeyPtr, *key.KeyPtr])(nil)
	_ Reader[key.KeyPtr]   = (*ReaderView[key.KeyPtr, *key.KeyPtr])(nil)
	_ Resolver[key.KeyPtr] = (*ResolverView[key.KeyPtr, *key.KeyPtr])(nil)
)
