package fixture

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/protopatch/content"
	"github.com/reoring/protopatch/property"
)

func loadTestContent(t *testing.T) *Content {
	t.Helper()
	c, err := LoadFile("../../testdata/content.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestLoadFile_Records(t *testing.T) {
	c := loadTestContent(t)

	id, ok := c.DB.Lookup("Powers/Fireball.prototype")
	if !ok || id != 3001 {
		t.Fatalf("lookup: %v %v", id, ok)
	}
	rec, _ := c.DB.Record(id)
	cost, _ := rec.Get("Cost")
	if cost != int64(5) {
		t.Fatalf("inherited Cost = %v", cost)
	}
	dmg, _ := rec.Get("Damage")
	if dmg != float32(25) {
		t.Fatalf("Damage = %v", dmg)
	}
	kw, _ := rec.Get("Keywords")
	if diff := cmp.Diff([]content.PrototypeID{1000, 1001}, kw); diff != "" {
		t.Fatalf("Keywords (-want +got):\n%s", diff)
	}
	off, _ := rec.Get("Offset")
	if off != (content.Vector3{X: 0, Y: 1, Z: 2}) {
		t.Fatalf("Offset = %v", off)
	}
	eff, _ := rec.Get("Effect")
	er := eff.(*content.Record)
	if er.Parent != 1000 || er.Class.Name != "EffectPrototype" {
		t.Fatalf("Effect = %+v", er)
	}
	if d, _ := er.Get("Duration"); d != float32(4) {
		t.Fatalf("Effect.Duration = %v", d)
	}
	if s, _ := er.Get("Stacks"); s != int64(1) {
		t.Fatalf("Effect.Stacks should be inherited, got %v", s)
	}

	base, _ := c.DB.Record(3000)
	baseEff, _ := base.Get("Effect")
	if baseEff.(*content.Record) == er {
		t.Fatalf("inherited sub-prototype must be a copy")
	}

	ignite, ok := c.DB.Record(9007199254740993)
	if !ok || ignite.Class.Name != "EffectPrototype" {
		t.Fatalf("big id record: %+v %v", ignite, ok)
	}
	if s, _ := ignite.Get("Stacks"); s != int64(3) {
		t.Fatalf("grandparent chain: Stacks = %v", s)
	}
}

func TestLoadFile_Properties(t *testing.T) {
	c := loadTestContent(t)
	if c.Properties.Initialized() {
		t.Fatalf("property table must start uninitialized")
	}
	if err := c.InitProperties(); err != nil {
		t.Fatalf("init: %v", err)
	}
	info, ok := c.Properties.LookupName("EnduranceCost")
	if !ok {
		t.Fatalf("EnduranceCost missing")
	}
	if !info.CurveProperty || info.ParamCount != 1 || info.ParamType(0) != property.ParamAsset {
		t.Fatalf("EnduranceCost info = %+v", info)
	}
	if info.DefaultValue.Curve() != 78 {
		t.Fatalf("default curve = %v", info.DefaultValue.Curve())
	}
	if info.DefaultCurveIndex != property.NewId(2) {
		t.Fatalf("curve index = %v", info.DefaultCurveIndex)
	}
	proc, _ := c.Properties.LookupName("ProcChance")
	if proc.DefaultParams != [property.MaxParamCount]property.Param{0, 7, 0, 0} {
		t.Fatalf("ProcChance defaults = %v", proc.DefaultParams)
	}
	if proc.DefaultValue.Real() != 0.5 {
		t.Fatalf("ProcChance default = %v", proc.DefaultValue)
	}
	if c.Curves.CurveByName("Curves/Cost.curve") != 77 {
		t.Fatalf("curve lookup failed")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field type", "classes: [{name: A, fields: [{name: X, type: Blob}]}]", "unknown type"},
		{"unknown class", "records: [{id: 1, name: R, class: Nope}]", "unknown class"},
		{"no class", "records: [{id: 1, name: R}]", "needs a class"},
		{"undeclared field", "classes: [{name: A}]\nrecords: [{id: 1, name: R, class: A, fields: {X: 1}}]", "unknown field"},
		{"bad field value", "classes: [{name: A, fields: [{name: X, type: Bool}]}]\nrecords: [{id: 1, name: R, class: A, fields: {X: 3}}]", "field X"},
		{"bad data type", "properties: [{enum: 1, name: P, data_type: Text}]", "unknown data type"},
		{"bad param type", "properties: [{enum: 1, name: P, data_type: Integer, params: [Color]}]", "unknown param type"},
		{"bad index property", "properties: [{enum: 1, name: P, data_type: Curve, default_curve_index: Q}]", "curve index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
