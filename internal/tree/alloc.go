package tree

import "github.com/google/uuid"

// maxAllocAttempts bounds the collision-retry loop in AllocateID. A random
// 128-bit identifier colliding even once against a store of thousands of
// documents is already negligible; hitting the bound means the generator is
// not actually random.
const maxAllocAttempts = 100

func defaultIDGenerator() string {
	return uuid.NewString()
}

// SetIDGenerator replaces the identifier source. Tests use this to make
// allocation deterministic; passing nil restores the random UUID source.
func (t *Tree) SetIDGenerator(gen func() string) {
	if gen == nil {
		gen = defaultIDGenerator
	}
	t.genID = gen
}

// AllocateID produces an identifier that does not collide with any id in the
// loaded tree. The check runs against the snapshot only, never the live
// device, which keeps allocation a pure function of the tree.
func (t *Tree) AllocateID() (string, error) {
	for i := 0; i < maxAllocAttempts; i++ {
		id := t.genID()
		if _, exists := t.byID[id]; !exists {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}
