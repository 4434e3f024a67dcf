package property

import (
	"fmt"
	"sync"

	"github.com/reoring/protopatch/content"
)

// Info is the metadata of one property kind.
type Info struct {
	Enum       Enum
	Name       string
	DataType   DataType
	ParamCount int
	ParamTypes [MaxParamCount]ParamType
	// CurveProperty marks function-valued properties that are stored as a
	// curve reference plus an index property instead of a scalar.
	CurveProperty     bool
	DefaultValue      Value
	DefaultParams     [MaxParamCount]Param
	DefaultCurveIndex Id
}

// ParamType returns the declared type of parameter i.
func (i *Info) ParamType(index int) ParamType {
	if index < 0 || index >= MaxParamCount {
		return ParamInvalid
	}
	return i.ParamTypes[index]
}

// ParamEncoder turns prototype and asset handles into key parameters.
type ParamEncoder interface {
	PrototypeParam(e Enum, index int, ref content.PrototypeID) Param
	AssetParam(a content.AssetID) Param
}

// RawEncoder stores handles bit for bit.
type RawEncoder struct{}

func (RawEncoder) PrototypeParam(_ Enum, _ int, ref content.PrototypeID) Param { return Param(ref) }
func (RawEncoder) AssetParam(a content.AssetID) Param                       { return Param(a) }

// Table is the property metadata table. It may exist before it is
// initialized; lookups on an uninitialized table find nothing.
type Table struct {
	mu          sync.RWMutex
	infos       map[Enum]*Info
	byName      map[string]*Info
	initialized bool
	encoder     ParamEncoder
}

// NewTable returns an uninitialized table. A nil encoder selects RawEncoder.
func NewTable(enc ParamEncoder) *Table {
	if enc == nil {
		enc = RawEncoder{}
	}
	return &Table{infos: make(map[Enum]*Info), byName: make(map[string]*Info), encoder: enc}
}

// Initialize registers the metadata and marks the table ready. It can be
// called once.
func (t *Table) Initialize(infos ...*Info) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		return fmt.Errorf("property: table already initialized")
	}
	for _, info := range infos {
		if _, ok := t.byName[info.Name]; ok {
			return fmt.Errorf("property: duplicate property name %q", info.Name)
		}
		if _, ok := t.infos[info.Enum]; ok {
			return fmt.Errorf("property: duplicate property enum %d", info.Enum)
		}
		if info.ParamCount < 0 || info.ParamCount > MaxParamCount {
			return fmt.Errorf("property: %s declares %d params", info.Name, info.ParamCount)
		}
		t.infos[info.Enum] = info
		t.byName[info.Name] = info
	}
	t.initialized = true
	return nil
}

// Initialized reports whether Initialize has completed.
func (t *Table) Initialized() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.initialized
}

func (t *Table) Lookup(e Enum) (*Info, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.infos[e]
	return i, ok
}

func (t *Table) LookupName(name string) (*Info, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.byName[name]
	return i, ok
}

// Name returns the property name for e, or its number.
func (t *Table) Name(e Enum) string {
	if i, ok := t.Lookup(e); ok {
		return i.Name
	}
	return fmt.Sprintf("Property(%d)", e)
}

func (t *Table) Encoder() ParamEncoder { return t.encoder }

// CurveDirectory resolves curve names.
type CurveDirectory interface {
	CurveByName(name string) CurveID
}

// CurveTable is a map-backed CurveDirectory.
type CurveTable struct {
	byName map[string]CurveID
	names  map[CurveID]string
}

func NewCurveTable() *CurveTable {
	return &CurveTable{byName: make(map[string]CurveID), names: make(map[CurveID]string)}
}

func (c *CurveTable) Add(name string, id CurveID) {
	c.byName[name] = id
	c.names[id] = name
}

// CurveByName returns InvalidCurve for unknown names.
func (c *CurveTable) CurveByName(name string) CurveID { return c.byName[name] }

// CurveName returns the registered name of id, or "" when unknown.
func (c *CurveTable) CurveName(id CurveID) string { return c.names[id] }
