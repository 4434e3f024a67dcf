// Package content models the record graph that patches mutate: stable record
// references, per-class field accessor tables, records and an in-memory
// database that doubles as the record-type catalog.
package content

import "strconv"

// PrototypeID is the stable data reference of a record.
type PrototypeID uint64

// InvalidPrototype is the zero reference.
const InvalidPrototype PrototypeID = 0

func (id PrototypeID) String() string { return strconv.FormatUint(uint64(id), 10) }

// PrototypeGUID is the content-compiler GUID of a record.
type PrototypeGUID uint64

// AssetID references an asset (often an enumerant) in the content database.
type AssetID uint64

// LocaleStringID references a localized string.
type LocaleStringID uint64

// Vector3 is a three-component single precision vector.
type Vector3 struct {
	X, Y, Z float32
}
