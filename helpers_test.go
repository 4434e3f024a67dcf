package protopatch_test

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/reoring/protopatch"
	"github.com/reoring/protopatch/internal/fixture"
)

// loadContent returns the shared content fixture with property metadata
// initialized unless deferProps is set.
func loadContent(t *testing.T, deferProps bool) *fixture.Content {
	t.Helper()
	c, err := fixture.LoadFile("testdata/content.yaml")
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	if !deferProps {
		if err := c.InitProperties(); err != nil {
			t.Fatalf("init properties: %v", err)
		}
	}
	return c
}

// bufferLogger captures log output at debug level.
func bufferLogger() (hclog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return hclog.New(&hclog.LoggerOptions{Name: "test", Level: hclog.Debug, Output: &buf}), &buf
}

func mustParse(t *testing.T, text string) any {
	t.Helper()
	n, err := protopatch.ParseNode([]byte(text))
	if err != nil {
		t.Fatalf("parse %s: %v", text, err)
	}
	return n
}
