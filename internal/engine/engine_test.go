package engine_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/reoring/protopatch/internal/engine"
	jsonsrc "github.com/reoring/protopatch/source/json"
)

func TestDecode_KeepsNumberText(t *testing.T) {
	got, err := eng.Decode(jsonsrc.NewBytes([]byte(`{"a":[18446744073709551615,1.5,"x",true,null],"b":[]}`)), eng.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"a": []any{json.Number("18446744073709551615"), json.Number("1.5"), "x", true, nil},
		"b": []any{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Duplicates(t *testing.T) {
	doc := []byte(`[{"a":1},{"Value":{"x":1,"x":2},"k/e~y":1,"k/e~y":2}]`)
	tests := []struct {
		name   string
		policy eng.DupPolicy
		want   []eng.Issue
		fatal  bool
	}{
		{name: "ignore", policy: eng.DupIgnore},
		{
			name:   "warn",
			policy: eng.DupWarn,
			want: []eng.Issue{
				{Code: eng.CodeDuplicateKey, Path: "/1/Value/x", Entry: 1, Message: "key 'x' duplicated"},
				{Code: eng.CodeDuplicateKey, Path: "/1/k~1e~0y", Entry: 1, Message: "key 'k/e~y' duplicated"},
			},
		},
		{
			name:   "error",
			policy: eng.DupError,
			want:   []eng.Issue{{Code: eng.CodeDuplicateKey, Path: "/1/Value/x", Entry: 1, Message: "key 'x' duplicated"}},
			fatal:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []eng.Issue
			n, err := eng.Decode(jsonsrc.NewBytes(doc), eng.Options{
				OnDuplicate: tt.policy,
				OnIssue:     func(is eng.Issue) { seen = append(seen, is) },
			})
			if diff := cmp.Diff(tt.want, seen); diff != "" {
				t.Fatalf("issues (-want +got):\n%s", diff)
			}
			if tt.fatal {
				var e *eng.Error
				if !errors.As(err, &e) || e.Entry != 1 {
					t.Fatalf("expected a fatal issue in entry 1, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if x := n.([]any)[1].(map[string]any)["Value"].(map[string]any)["x"]; x != json.Number("2") {
				t.Fatalf("last key should win, got %v", x)
			}
		})
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	_, err := eng.Decode(jsonsrc.NewBytes([]byte(`{"a":{"b":{"c":1}}}`)), eng.Options{MaxDepth: 2})
	var e *eng.Error
	if !errors.As(err, &e) || e.Code != eng.CodeParseError || e.Path != "/a/b" || e.Entry != -1 {
		t.Fatalf("expected depth issue at /a/b, got %v", err)
	}

	if _, err := eng.Decode(jsonsrc.NewBytes([]byte(`[[1]]`)), eng.Options{MaxDepth: 2}); err != nil {
		t.Fatalf("depth 2 is allowed: %v", err)
	}
}

func TestDecode_MaxBytes(t *testing.T) {
	_, err := eng.Decode(jsonsrc.NewBytes([]byte(`[{"a":"0123456789"}]`)), eng.Options{MaxBytes: 8})
	var e *eng.Error
	if !errors.As(err, &e) || e.Code != eng.CodeTruncated {
		t.Fatalf("expected truncated, got %v", err)
	}
}
