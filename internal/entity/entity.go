// Package entity defines the contract every persisted domain object satisfies
// before and after crossing the storage boundary.
package entity

// Entity is implemented by every domain type that can be persisted.
type Entity interface {
	// EntityID returns the storage-assigned identifier and whether one is set.
	EntityID() (int64, bool)
	// Validate returns an empty slice iff the entity may be persisted.
	Validate() []string
	// ToPayload returns the exact field set to send over the wire.
	ToPayload() Payload
}

// Decoder reconstructs a typed entity from a raw wire mapping.
type Decoder[T Entity] func(Payload) (T, error)
