package property

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValue_Accessors(t *testing.T) {
	if v := IntValue(-7); v.Type() != DataInteger || v.Int() != -7 {
		t.Fatalf("int value: %v", v)
	}
	if v := RealValue(1.25); v.Type() != DataReal || v.Real() != 1.25 {
		t.Fatalf("real value: %v", v)
	}
	if v := BoolValue(true); !v.Bool() || v.String() != "true" {
		t.Fatalf("bool value: %v", v)
	}
	if v := CurveValue(99); v.Curve() != 99 {
		t.Fatalf("curve value: %v", v)
	}
}

func TestCollection_ScalarAndCurveExclusive(t *testing.T) {
	c := NewCollection()
	id := NewId(3, 1)
	c.Set(id, IntValue(5))
	c.SetCurve(id, 42, NewId(9))
	if _, ok := c.Get(id); ok {
		t.Fatalf("scalar should be replaced by curve binding")
	}
	b, ok := c.Curve(id)
	if !ok || b.Curve != 42 || b.Index != NewId(9) {
		t.Fatalf("unexpected binding: %+v", b)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestCollection_IDsSortedAndMerge(t *testing.T) {
	a := NewCollection()
	a.Set(NewId(2), IntValue(1))
	a.Set(NewId(1, 5), IntValue(2))
	b := NewCollection()
	b.Set(NewId(2), IntValue(9))
	b.Set(NewId(1, 4), BoolValue(true))
	a.Merge(b)

	want := []Id{NewId(1, 4), NewId(1, 5), NewId(2)}
	if diff := cmp.Diff(want, a.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if v, _ := a.Get(NewId(2)); v.Int() != 9 {
		t.Fatalf("merge should prefer the argument, got %v", v)
	}
}

func TestTable_InitializeOnce(t *testing.T) {
	tbl := NewTable(nil)
	if tbl.Initialized() {
		t.Fatalf("new table must not be initialized")
	}
	if _, ok := tbl.LookupName("Health"); ok {
		t.Fatalf("lookup on uninitialized table should miss")
	}
	if err := tbl.Initialize(&Info{Enum: 1, Name: "Health", DataType: DataInteger}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := tbl.Initialize(); err == nil {
		t.Fatalf("second initialize should fail")
	}
	if info, ok := tbl.LookupName("Health"); !ok || info.Enum != 1 {
		t.Fatalf("lookup: %+v %v", info, ok)
	}
}

func TestTable_RejectsDuplicates(t *testing.T) {
	tbl := NewTable(nil)
	err := tbl.Initialize(&Info{Enum: 1, Name: "A"}, &Info{Enum: 2, Name: "A"})
	if err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestCollection_Format(t *testing.T) {
	tbl := NewTable(nil)
	_ = tbl.Initialize(
		&Info{Enum: 1, Name: "Damage", DataType: DataReal},
		&Info{Enum: 2, Name: "EnduranceCost", DataType: DataCurve, ParamCount: 1, CurveProperty: true},
		&Info{Enum: 3, Name: "PowerRank", DataType: DataInteger},
	)
	curves := NewCurveTable()
	curves.Add("Curves/Cost.curve", 77)

	c := NewCollection()
	c.Set(NewId(1), RealValue(2.5))
	c.SetCurve(NewId(2, 1), 77, NewId(3))

	out := c.Format(tbl, curves)
	for _, want := range []string{"Damage = 2.5", "EnduranceCost[1 0 0 0] = curve 77 (Curves/Cost.curve) index PowerRank"} {
		if !strings.Contains(out, want) {
			t.Fatalf("format output missing %q:\n%s", want, out)
		}
	}
}
