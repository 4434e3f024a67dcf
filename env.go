package protopatch

import (
	"github.com/hashicorp/go-hclog"

	"github.com/reoring/protopatch/content"
	"github.com/reoring/protopatch/property"
)

// Catalog is the record-type catalog prototype values are built against.
// *content.Database implements it.
type Catalog interface {
	// ClassOf returns the concrete class of the referenced record.
	ClassOf(id content.PrototypeID) (*content.Class, error)
	// Allocate returns a new record of the class.
	Allocate(class *content.Class) *content.Record
	// CopyInheritedFields clones the parent's field values into rec.
	CopyInheritedFields(rec *content.Record, parent content.PrototypeID) error
}

// RecordGraph is the live record graph patches are applied to.
type RecordGraph interface {
	Catalog
	Lookup(name string) (content.PrototypeID, bool)
	Record(id content.PrototypeID) (*content.Record, bool)
}

// ResolveContext carries what property decoding needs. Properties may be a
// table that is not initialized yet; resolution then fails with ErrNotReady.
type ResolveContext struct {
	Properties *property.Table
	Curves     property.CurveDirectory
	Logger     hclog.Logger
}

// Ready reports whether the property metadata table can be queried.
func (rc *ResolveContext) Ready() bool {
	return rc != nil && rc.Properties != nil && rc.Properties.Initialized()
}

func (rc *ResolveContext) logger() hclog.Logger {
	if rc == nil || rc.Logger == nil {
		return hclog.NewNullLogger()
	}
	return rc.Logger
}

// Env is everything a registry needs from its host.
type Env struct {
	Graph      RecordGraph
	Properties *property.Table
	Curves     property.CurveDirectory
}

func (e Env) resolveContext(log hclog.Logger) *ResolveContext {
	return &ResolveContext{Properties: e.Properties, Curves: e.Curves, Logger: log}
}
