package protopatch_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/protopatch"
	"github.com/reoring/protopatch/content"
	"github.com/reoring/protopatch/internal/fixture"
	"github.com/reoring/protopatch/property"
)

const (
	baseID     content.PrototypeID = 3000
	fireballID content.PrototypeID = 3001
)

// applyPatches loads testdata/patches into a fresh registry.
func applyPatches(t *testing.T, initProps bool) (*fixture.Content, *protopatch.Registry, error) {
	t.Helper()
	c := loadContent(t, !initProps)
	entries, err := protopatch.NewLoader(c.DB, nil).LoadDir("testdata/patches")
	if _, ok := protopatch.AsIssues(err); !ok {
		t.Fatalf("load: %v", err)
	}
	r := protopatch.NewRegistry(c.Env())
	return c, r, r.ApplyAll(entries)
}

func TestRegistry_ApplyAll(t *testing.T) {
	c, r, err := applyPatches(t, true)
	iss, ok := protopatch.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one apply issue, got %v", err)
	}
	if iss[0].Code != protopatch.CodeUnknownTarget || iss[0].Path != "/2" || iss[0].Target != "Powers/Missing.prototype" {
		t.Fatalf("issue = %+v", iss[0])
	}
	if !strings.HasSuffix(iss[0].Source, "20-properties.yaml") {
		t.Fatalf("issue source = %q", iss[0].Source)
	}

	if n := r.EntryCount(fireballID); n != 6 {
		t.Fatalf("Fireball entries = %d, want 6", n)
	}
	if diff := cmp.Diff([]content.PrototypeID{fireballID}, r.Targets()); diff != "" {
		t.Fatalf("targets (-want +got):\n%s", diff)
	}

	rec, _ := c.DB.Record(fireballID)
	if d, _ := rec.Get("Damage"); d != float32(32.5) {
		t.Fatalf("Damage = %v", d)
	}
	if cost, _ := rec.Get("Cost"); cost != int64(5) {
		t.Fatalf("disabled entry applied: Cost = %v", cost)
	}
	kw, _ := rec.Get("Keywords")
	if diff := cmp.Diff([]content.PrototypeID{1000, 9007199254740993}, kw); diff != "" {
		t.Fatalf("Keywords (-want +got):\n%s", diff)
	}
	ranks, _ := rec.Get("Ranks")
	if l, _ := ranks.([]*content.Record)[1].Get("Level"); l != int64(5) {
		t.Fatalf("Ranks[1].Level = %v", l)
	}
	eff, _ := rec.Get("Effect")
	er := eff.(*content.Record)
	if er.Parent != 1001 {
		t.Fatalf("Effect parent = %v", er.Parent)
	}
	if d, _ := er.Get("Duration"); d != float32(6.5) {
		t.Fatalf("Effect.Duration = %v", d)
	}
	if s, _ := er.Get("Stacks"); s != int64(3) {
		t.Fatalf("Effect.Stacks should stay inherited, got %v", s)
	}

	base, _ := c.DB.Record(baseID)
	baseRanks, _ := base.Get("Ranks")
	if l, _ := baseRanks.([]*content.Record)[1].Get("Level"); l != int64(2) {
		t.Fatalf("patching Fireball leaked into Base: Level = %v", l)
	}

	for _, e := range r.Entries(fireballID) {
		if !e.Applied() {
			t.Errorf("entry %s not applied", e.Path)
		}
	}
}

func TestRegistry_PropertyPatch(t *testing.T) {
	_, r, _ := applyPatches(t, true)

	ok, col, err := r.HasPropertyPatch(fireballID)
	if err != nil || !ok {
		t.Fatalf("HasPropertyPatch: %v %v", ok, err)
	}
	if col.Len() != 3 {
		t.Fatalf("expected 3 merged properties, got %d", col.Len())
	}
	if v, _ := col.Get(property.NewId(1)); v != property.RealValue(4) {
		t.Fatalf("later entry should win: Damage = %v", v)
	}
	if cb, _ := col.Curve(property.NewId(3, 1)); cb.Curve != 77 {
		t.Fatalf("EnduranceCost = %+v", cb)
	}
	if v, _ := col.Get(property.NewId(4, 1000, 3)); v != property.RealValue(0.25) {
		t.Fatalf("ProcChance = %v", v)
	}
	_, again, _ := r.HasPropertyPatch(fireballID)
	if again != col {
		t.Fatalf("merged collection should be memoized")
	}

	ok, _, text := r.PreviewPropertyPatch(fireballID)
	if !ok || !strings.HasPrefix(text, "resolved 3 properties\n") || !strings.Contains(text, "Curves/Cost.curve") {
		t.Fatalf("preview = %q", text)
	}
	if ok, _, text := r.PreviewPropertyPatch(baseID); ok || text != "no property patch" {
		t.Fatalf("Base preview = %v %q", ok, text)
	}
	if ok, col, err := r.HasPropertyPatch(baseID); ok || col != nil || err != nil {
		t.Fatalf("Base has no property patch: %v %v %v", ok, col, err)
	}
}

func TestRegistry_PropertyPatchNotReady(t *testing.T) {
	c, r, _ := applyPatches(t, false)

	ok, col, err := r.HasPropertyPatch(fireballID)
	if !ok || col != nil || !errors.Is(err, protopatch.ErrNotReady) {
		t.Fatalf("expected (true, nil, ErrNotReady), got %v %v %v", ok, col, err)
	}
	if ok, _, text := r.PreviewPropertyPatch(fireballID); ok || !strings.HasPrefix(text, "not ready") {
		t.Fatalf("preview = %v %q", ok, text)
	}

	if err := c.InitProperties(); err != nil {
		t.Fatal(err)
	}
	ok, col, err = r.HasPropertyPatch(fireballID)
	if err != nil || !ok || col.Len() != 3 {
		t.Fatalf("after initialization: %v %v", ok, err)
	}
}

func TestRegistry_ApplyCases(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		code    string
		applied bool
		check   func(t *testing.T, rec *content.Record)
	}{
		{
			name:    "whole array replace",
			entry:   `{"Prototype": "Powers/Fireball.prototype", "Path": "Keywords[]", "ValueType": "PrototypeIdArray", "Value": [1001]}`,
			applied: true,
			check: func(t *testing.T, rec *content.Record) {
				kw, _ := rec.Get("Keywords")
				if diff := cmp.Diff([]content.PrototypeID{1001}, kw); diff != "" {
					t.Fatalf("Keywords (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:    "nested prototype array field",
			entry:   `{"Prototype": "Powers/Fireball.prototype", "Path": "Ranks[0].Scale", "ValueType": "Float", "Value": 2.5}`,
			applied: true,
			check: func(t *testing.T, rec *content.Record) {
				ranks, _ := rec.Get("Ranks")
				if s, _ := ranks.([]*content.Record)[0].Get("Scale"); s != float32(2.5) {
					t.Fatalf("Ranks[0].Scale = %v", s)
				}
			},
		},
		{
			name:    "replace one prototype element",
			entry:   `{"Prototype": "Powers/Fireball.prototype", "Path": "Ranks[1]", "ValueType": "Prototype", "Value": {"ParentDataRef": 2000, "Level": 7}}`,
			applied: true,
			check: func(t *testing.T, rec *content.Record) {
				ranks, _ := rec.Get("Ranks")
				if l, _ := ranks.([]*content.Record)[1].Get("Level"); l != int64(7) {
					t.Fatalf("Ranks[1].Level = %v", l)
				}
			},
		},
		{
			name:    "vector",
			entry:   `{"Prototype": "3001", "Path": "Offset", "ValueType": "Vector3", "Value": [4, 5, 6]}`,
			applied: true,
			check: func(t *testing.T, rec *content.Record) {
				if v, _ := rec.Get("Offset"); v != (content.Vector3{X: 4, Y: 5, Z: 6}) {
					t.Fatalf("Offset = %v", v)
				}
			},
		},
		{
			name:  "scalar addressed as array",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Damage[]", "ValueType": "Float", "Value": 1}`,
			code:  protopatch.CodeInvalidType,
		},
		{
			name:  "index out of range",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Keywords[9]", "ValueType": "PrototypeId", "Value": 1000}`,
			code:  protopatch.CodeIndexOutOfRange,
		},
		{
			name:  "container index out of range",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Ranks[5].Level", "ValueType": "Integer", "Value": 1}`,
			code:  protopatch.CodeIndexOutOfRange,
		},
		{
			name:  "undeclared field",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Effect.Bogus", "ValueType": "Integer", "Value": 1}`,
		},
		{
			name:  "walk through scalar",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Damage.Value", "ValueType": "Integer", "Value": 1}`,
			code:  protopatch.CodeInvalidPath,
		},
		{
			name:  "unknown container",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Nope.Value", "ValueType": "Integer", "Value": 1}`,
			code:  protopatch.CodeInvalidPath,
		},
		{
			name:  "field conversion",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Damage", "ValueType": "String", "Value": "fast"}`,
			code:  protopatch.CodeFieldConversion,
		},
		{
			name:  "enum outside the declared set",
			entry: `{"Prototype": "Powers/Fireball.prototype", "Path": "Mode", "ValueType": "Enum", "Value": "Orbital"}`,
			code:  protopatch.CodeFieldConversion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadContent(t, false)
			log, buf := bufferLogger()
			entries, err := protopatch.NewLoader(c.DB, nil).Load("case.json", []byte("["+tt.entry+"]"))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			r := protopatch.NewRegistry(c.Env(), protopatch.RegistryOpt{Logger: log})
			err = r.ApplyAll(entries)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("apply: %v", err)
				}
			} else {
				iss, _ := protopatch.AsIssues(err)
				if len(iss) != 1 || iss[0].Code != tt.code || iss[0].Path != "/0" {
					t.Fatalf("expected %s at /0, got %v", tt.code, err)
				}
			}
			if got := entries[0].Applied(); got != tt.applied {
				t.Fatalf("applied = %v, want %v\n%s", got, tt.applied, buf.String())
			}
			if tt.name == "undeclared field" && !strings.Contains(buf.String(), "field not declared on target") {
				t.Fatalf("undeclared field not logged:\n%s", buf.String())
			}
			if tt.check != nil {
				rec, _ := c.DB.Record(fireballID)
				tt.check(t, rec)
			}
		})
	}
}

func TestRegistry_EntryWithoutValue(t *testing.T) {
	c := loadContent(t, false)
	r := protopatch.NewRegistry(c.Env())
	e := protopatch.NewEntry(true, "Powers/Fireball.prototype", "Damage", "", nil)
	err := r.ApplyAll([]*protopatch.Entry{e})
	iss, _ := protopatch.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != protopatch.CodeInvalidShape {
		t.Fatalf("expected invalid_shape, got %v", err)
	}
	if r.EntryCount(fireballID) != 0 {
		t.Fatalf("an entry without value must not be indexed")
	}
}

func TestRegistry_LaterPropertyEntriesInvalidateMemo(t *testing.T) {
	c := loadContent(t, false)
	d := &protopatch.Decoder{}
	first, _ := d.Decode(mustParse(t, `{"Damage": 1}`), protopatch.KindProperties)
	second, _ := d.Decode(mustParse(t, `{"Damage": 2, "PowerRank": 3}`), protopatch.KindProperties)

	r := protopatch.NewRegistry(c.Env())
	if err := r.ApplyAll([]*protopatch.Entry{protopatch.NewEntry(true, "Powers/Fireball.prototype", "Properties", "", first)}); err != nil {
		t.Fatal(err)
	}
	_, col, _ := r.HasPropertyPatch(fireballID)
	if col.Len() != 1 {
		t.Fatalf("len = %d", col.Len())
	}
	if err := r.ApplyAll([]*protopatch.Entry{protopatch.NewEntry(true, "Powers/Fireball.prototype", "Properties", "", second)}); err != nil {
		t.Fatal(err)
	}
	_, col, _ = r.HasPropertyPatch(fireballID)
	if v, _ := col.Get(property.NewId(1)); col.Len() != 2 || v != property.RealValue(2) {
		t.Fatalf("merged after second batch: len %d Damage %v", col.Len(), v)
	}
}
