package content

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var (
	// ErrUnknownRecord is returned for references the database does not hold.
	ErrUnknownRecord = errors.New("content: unknown record")
	// ErrDuplicateRecord is returned when a record id or name is registered twice.
	ErrDuplicateRecord = errors.New("content: duplicate record")
)

// Database is an in-memory record graph and record-type catalog.
// It is written during startup and read afterwards; it is not safe for
// concurrent mutation.
type Database struct {
	classes map[string]*Class
	records map[PrototypeID]*Record
	byName  map[string]PrototypeID
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{
		classes: make(map[string]*Class),
		records: make(map[PrototypeID]*Record),
		byName:  make(map[string]PrototypeID),
	}
}

// AddClass registers a class by name, replacing any previous registration.
func (db *Database) AddClass(c *Class) { db.classes[c.Name] = c }

// Class returns the class registered under name.
func (db *Database) Class(name string) (*Class, bool) {
	c, ok := db.classes[name]
	return c, ok
}

// Add registers a record. If the record declares a parent, every field the
// record has not set explicitly is inherited from the parent first.
func (db *Database) Add(rec *Record) error {
	if rec.ID == InvalidPrototype {
		return fmt.Errorf("content: record %q has no id", rec.Name)
	}
	if _, ok := db.records[rec.ID]; ok {
		return fmt.Errorf("%w: id %d", ErrDuplicateRecord, rec.ID)
	}
	if rec.Name != "" {
		if _, ok := db.byName[rec.Name]; ok {
			return fmt.Errorf("%w: name %q", ErrDuplicateRecord, rec.Name)
		}
	}
	if rec.Parent != InvalidPrototype {
		parent, ok := db.records[rec.Parent]
		if !ok {
			return fmt.Errorf("%w: parent %d of %q", ErrUnknownRecord, rec.Parent, rec.Name)
		}
		own := rec.values
		rec.values = make(map[string]any, len(own))
		rec.CopyFrom(parent)
		for k, v := range own {
			rec.values[k] = v
		}
	}
	db.records[rec.ID] = rec
	if rec.Name != "" {
		db.byName[rec.Name] = rec.ID
	}
	return nil
}

// Record returns the record with the given reference.
func (db *Database) Record(id PrototypeID) (*Record, bool) {
	r, ok := db.records[id]
	return r, ok
}

// Lookup resolves a record name to its reference. A decimal string is
// accepted as a raw reference when a record with that id exists.
func (db *Database) Lookup(name string) (PrototypeID, bool) {
	if id, ok := db.byName[name]; ok {
		return id, true
	}
	if n, err := strconv.ParseUint(name, 10, 64); err == nil {
		if _, ok := db.records[PrototypeID(n)]; ok {
			return PrototypeID(n), true
		}
	}
	return InvalidPrototype, false
}

// NameOf returns the record name for a reference, or its decimal form.
func (db *Database) NameOf(id PrototypeID) string {
	if r, ok := db.records[id]; ok && r.Name != "" {
		return r.Name
	}
	return id.String()
}

// ClassOf returns the concrete class of the referenced record.
func (db *Database) ClassOf(id PrototypeID) (*Class, error) {
	r, ok := db.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRecord, id)
	}
	return r.Class, nil
}

// Allocate returns a new, unregistered record of the class.
func (db *Database) Allocate(class *Class) *Record { return NewRecord(class) }

// CopyInheritedFields clones the parent's field values into rec.
func (db *Database) CopyInheritedFields(rec *Record, parent PrototypeID) error {
	p, ok := db.records[parent]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRecord, parent)
	}
	rec.CopyFrom(p)
	return nil
}

// IDs returns every registered reference in ascending order.
func (db *Database) IDs() []PrototypeID {
	ids := make([]PrototypeID, 0, len(db.records))
	for id := range db.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
