package property

import (
	"fmt"
	"sort"
	"strings"
)

// CurveBinding is the stored form of a curve property.
type CurveBinding struct {
	Curve CurveID
	Index Id
}

// Collection is a property table. A key holds either a scalar or a curve
// binding, never both.
type Collection struct {
	values map[Id]Value
	curves map[Id]CurveBinding
}

func NewCollection() *Collection {
	return &Collection{values: make(map[Id]Value), curves: make(map[Id]CurveBinding)}
}

// Set stores a scalar value, replacing any curve binding of the same key.
func (c *Collection) Set(id Id, v Value) {
	delete(c.curves, id)
	c.values[id] = v
}

// SetCurve stores a curve binding, replacing any scalar of the same key.
func (c *Collection) SetCurve(id Id, curve CurveID, index Id) {
	delete(c.values, id)
	c.curves[id] = CurveBinding{Curve: curve, Index: index}
}

func (c *Collection) Get(id Id) (Value, bool) {
	v, ok := c.values[id]
	return v, ok
}

func (c *Collection) Curve(id Id) (CurveBinding, bool) {
	b, ok := c.curves[id]
	return b, ok
}

// Len counts scalar and curve entries.
func (c *Collection) Len() int { return len(c.values) + len(c.curves) }

// IDs returns every key in ascending order.
func (c *Collection) IDs() []Id {
	ids := make([]Id, 0, c.Len())
	for id := range c.values {
		ids = append(ids, id)
	}
	for id := range c.curves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].less(ids[j]) })
	return ids
}

// Merge copies every entry of o into c; o wins on conflicts.
func (c *Collection) Merge(o *Collection) {
	for id, v := range o.values {
		c.Set(id, v)
	}
	for id, b := range o.curves {
		c.SetCurve(id, b.Curve, b.Index)
	}
}

// CurveNamer optionally names curves in Format output.
type CurveNamer interface {
	CurveName(id CurveID) string
}

// Format renders the collection one key per line for diagnostics. Both
// arguments may be nil.
func (c *Collection) Format(t *Table, curves CurveNamer) string {
	var b strings.Builder
	name := func(id Id) string {
		if t == nil {
			return fmt.Sprintf("Property(%d)%v", id.Enum, id.Params)
		}
		if info, ok := t.Lookup(id.Enum); ok && info.ParamCount == 0 {
			return info.Name
		}
		return t.Name(id.Enum) + fmt.Sprint(id.Params)
	}
	for _, id := range c.IDs() {
		if v, ok := c.values[id]; ok {
			fmt.Fprintf(&b, "%s = %s\n", name(id), v)
			continue
		}
		cb := c.curves[id]
		cn := ""
		if curves != nil {
			cn = curves.CurveName(cb.Curve)
		}
		if cn != "" {
			fmt.Fprintf(&b, "%s = curve %d (%s) index %s\n", name(id), cb.Curve, cn, name(cb.Index))
		} else {
			fmt.Fprintf(&b, "%s = curve %d index %s\n", name(id), cb.Curve, name(cb.Index))
		}
	}
	return b.String()
}
