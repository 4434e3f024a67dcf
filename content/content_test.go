package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func powerClass() *Class {
	return NewClass("PowerPrototype",
		Field{Name: "DisplayName", Type: FieldLocaleString},
		Field{Name: "Cooldown", Type: FieldFloat},
		Field{Name: "MaxRank", Type: FieldInt},
		Field{Name: "Keywords", Type: FieldPrototypeRefArray},
		Field{Name: "Activation", Type: FieldEnum, Enum: []string{"Instant", "Channel"}},
	)
}

func TestField_Convert(t *testing.T) {
	c := powerClass()
	tests := []struct {
		field   string
		in      any
		want    any
		wantErr bool
	}{
		{"Cooldown", float64(1.5), float32(1.5), false},
		{"Cooldown", uint64(3), float32(3), false},
		{"Cooldown", float64(1e39), nil, true},
		{"Cooldown", "1e39", nil, true},
		{"MaxRank", uint64(20), int64(20), false},
		{"MaxRank", float64(2.5), nil, true},
		{"MaxRank", "7", int64(7), false},
		{"DisplayName", uint64(5), nil, true},
		{"DisplayName", LocaleStringID(5), LocaleStringID(5), false},
		{"Activation", "Channel", "Channel", false},
		{"Activation", "Toggle", nil, true},
	}
	for _, tt := range tests {
		f, _ := c.Field(tt.field)
		got, err := f.Convert(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrFieldType) {
				t.Errorf("%s(%v): expected ErrFieldType, got %v", tt.field, tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s(%v): %v", tt.field, tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s(%v) = %#v, want %#v", tt.field, tt.in, got, tt.want)
		}
	}
}

func TestRecord_SetIndex(t *testing.T) {
	r := NewRecord(powerClass())
	if err := r.Set("Keywords", []PrototypeID{1, 2, 3}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := r.SetIndex("Keywords", 1, PrototypeID(9)); err != nil {
		t.Fatalf("set index: %v", err)
	}
	got, _ := r.Get("Keywords")
	if diff := cmp.Diff([]PrototypeID{1, 9, 3}, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
	if err := r.SetIndex("Keywords", 3, PrototypeID(1)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := r.SetIndex("MaxRank", 0, PrototypeID(1)); !errors.Is(err, ErrNotArray) {
		t.Fatalf("expected not array, got %v", err)
	}
	if err := r.Set("Nope", 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
}

func TestDatabase_Inheritance(t *testing.T) {
	db := NewDatabase()
	c := powerClass()
	db.AddClass(c)

	base := NewRecord(c)
	base.ID, base.Name = 100, "Powers/Base.prototype"
	_ = base.Set("Cooldown", float32(4))
	_ = base.Set("Keywords", []PrototypeID{7})
	if err := db.Add(base); err != nil {
		t.Fatalf("add base: %v", err)
	}

	child := NewRecord(c)
	child.ID, child.Name, child.Parent = 101, "Powers/Child.prototype", 100
	_ = child.Set("MaxRank", int64(3))
	if err := db.Add(child); err != nil {
		t.Fatalf("add child: %v", err)
	}

	if v, _ := child.Get("Cooldown"); v != float32(4) {
		t.Fatalf("cooldown not inherited: %v", v)
	}
	if v, _ := child.Get("MaxRank"); v != int64(3) {
		t.Fatalf("own field overwritten: %v", v)
	}

	// inherited arrays are copies
	_ = child.SetIndex("Keywords", 0, PrototypeID(8))
	if v, _ := base.Get("Keywords"); v.([]PrototypeID)[0] != 7 {
		t.Fatalf("parent array mutated through child")
	}

	if id, ok := db.Lookup("Powers/Child.prototype"); !ok || id != 101 {
		t.Fatalf("lookup by name: %v %v", id, ok)
	}
	if id, ok := db.Lookup("100"); !ok || id != 100 {
		t.Fatalf("lookup by number: %v %v", id, ok)
	}
	if err := db.Add(child); !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestRecord_Dump(t *testing.T) {
	r := NewRecord(powerClass())
	_ = r.Set("MaxRank", int64(2))
	_ = r.Set("Activation", "Instant")
	out := r.Dump()
	if !strings.Contains(out, "MaxRank = 2") || !strings.Contains(out, `Activation = "Instant"`) {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}
