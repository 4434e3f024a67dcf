package protopatch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	eng "github.com/reoring/protopatch/internal/engine"
	"github.com/reoring/protopatch/i18n"
)

// Patch entry keys.
const (
	keyEnabled     = "Enabled"
	keyPrototype   = "Prototype"
	keyPath        = "Path"
	keyDescription = "Description"
	keyValueType   = "ValueType"
	keyValue       = "Value"
)

// Loader reads patch files into entries.
type Loader struct {
	Decoder Decoder
	Opt     LoadOpt
}

// NewLoader returns a loader that builds prototype values against cat. The
// last opt wins.
func NewLoader(cat Catalog, log hclog.Logger, opts ...LoadOpt) *Loader {
	return &Loader{Decoder: Decoder{Catalog: cat, Logger: log}, Opt: lastLoadOpt(opts)}
}

// Load decodes one patch document. name is used for issue sources and picks
// YAML decoding for .yaml and .yml names.
//
// A rejected entry yields an Issue at its index and does not stop the load
// unless Opt.FailFast is set; the entries that did decode are returned along
// with the Issues. A document that cannot be parsed at all returns no entries.
func (l *Loader) Load(name string, data []byte) ([]*Entry, error) {
	batch := uuid.NewString()
	log := l.logger().With("batch", batch, "source", name)

	if isYAML(name) {
		conv, err := yamlToJSON(data)
		if err != nil {
			return nil, Issues{{Source: name, Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, map[string]string{"detail": err.Error()}), Cause: err}}
		}
		data = conv
	}
	if l.Opt.MaxBytes > 0 && int64(len(data)) > l.Opt.MaxBytes {
		return nil, Issues{{Source: name, Path: "/", Code: CodeTruncated, Message: "max bytes exceeded"}}
	}

	// Duplicates are collected rather than fatal so that Error can reject
	// just the entry holding them.
	var dups []eng.Issue
	scan := l.Opt
	if scan.Strictness.OnDuplicateKey != Ignore {
		scan.Strictness.OnDuplicateKey = Warn
	}
	root, err := parseNode(JSONBytes(data), scan, func(is eng.Issue) {
		if is.Code == CodeDuplicateKey {
			dups = append(dups, is)
		}
	})
	if err != nil {
		iss := toIssues(err)
		for i := range iss {
			iss[i].Source = name
		}
		return nil, iss
	}
	list, ok := nodeArray(root)
	if !ok {
		return nil, Issues{{Source: name, Path: "/", Code: CodeInvalidShape, Message: "patch document must be an array of entries, got " + describeNode(root)}}
	}

	var issues Issues
	rejected := map[int]bool{}
	for _, d := range dups {
		if l.Opt.Strictness.OnDuplicateKey == Error && d.Entry >= 0 {
			rejected[d.Entry] = true
			issues = AppendIssues(issues, Issue{Source: name, Path: d.Path, Code: d.Code, Message: d.Message})
			continue
		}
		log.Warn("duplicate key", "path", d.Path)
	}

	entries := make([]*Entry, 0, len(list))
	for i, raw := range list {
		if rejected[i] {
			if l.Opt.FailFast {
				break
			}
			continue
		}
		e, err := l.decodeEntry(i, raw)
		if err != nil {
			it := err.(Issue)
			it.Source = name
			issues = AppendIssues(issues, it)
			log.Warn("rejected patch entry", "index", i, "code", it.Code, "error", it.Message)
			if l.Opt.FailFast {
				break
			}
			continue
		}
		e.Batch, e.Source = batch, name
		entries = append(entries, e)
	}
	log.Debug("loaded patch document", "entries", len(entries), "rejected", len(issues))
	return entries, issues.Err()
}

func (l *Loader) decodeEntry(i int, raw any) (*Entry, error) {
	ref := EntryRef(i)
	obj, ok := nodeObject(raw)
	if !ok {
		return nil, ref.Issue(CodeInvalidShape, "entry must be an object, got "+describeNode(raw))
	}
	target, err := requiredString(obj, ref, keyPrototype)
	if err != nil {
		return nil, err
	}
	path, err := requiredString(obj, ref, keyPath)
	if err != nil {
		return nil, err
	}
	vt, err := requiredString(obj, ref, keyValueType)
	if err != nil {
		return nil, err
	}
	enabled := true
	if v, ok := obj[keyEnabled]; ok {
		if enabled, ok = nodeBool(v); !ok {
			return nil, ref.Field(keyEnabled).Issue(CodeInvalidType, "Enabled must be a boolean")
		}
	}
	desc, _ := nodeString(obj[keyDescription])

	kind, err := ParseKind(vt)
	if err != nil {
		it := issueFromError(ref.Field(keyValueType), err)
		it.Target = target
		return nil, it
	}
	node, ok := obj[keyValue]
	if !ok {
		return nil, ref.Issue(CodeRequired, i18n.T(CodeRequired, map[string]string{"key": keyValue}))
	}
	v, err := l.Decoder.Decode(node, kind)
	if err != nil {
		it := issueFromError(ref.Field(keyValue), err)
		it.Target = target
		return nil, it
	}
	e := NewEntry(enabled, target, path, desc, v)
	e.Index = i
	return e, nil
}

func requiredString(obj map[string]any, ref PathRef, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", ref.Issue(CodeRequired, i18n.T(CodeRequired, map[string]string{"key": key}))
	}
	s, ok := nodeString(raw)
	if !ok || s == "" {
		return "", ref.Field(key).Issue(CodeInvalidType, key+" must be a non-empty string")
	}
	return s, nil
}

// LoadFile reads and loads one patch file.
func (l *Loader) LoadFile(path string) ([]*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(path, data)
}

// LoadDir loads every .json, .yaml and .yml file of dir in name order. Issues
// of all files are returned together; entries keep file order.
func (l *Loader) LoadDir(dir string) ([]*Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var all []*Entry
	var issues Issues
	for _, de := range des {
		if de.IsDir() || !IsPatchFile(de.Name()) {
			continue
		}
		entries, err := l.LoadFile(filepath.Join(dir, de.Name()))
		all = append(all, entries...)
		if err != nil {
			iss, ok := AsIssues(err)
			if !ok {
				return all, err
			}
			issues = AppendIssues(issues, iss...)
			if l.Opt.FailFast {
				break
			}
		}
	}
	return all, issues.Err()
}

func (l *Loader) logger() hclog.Logger {
	if l.Decoder.Logger == nil {
		return hclog.NewNullLogger()
	}
	return l.Decoder.Logger
}

// IsPatchFile reports whether name has a patch file extension.
func IsPatchFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// yamlToJSON re-encodes a YAML document as JSON text so both formats share
// the token engine. It works on the node tree, so repeated mapping keys are
// written out as they are and reach duplicate-key handling.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := writeYAMLNode(&b, &doc); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func writeYAMLNode(b *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case 0:
		// empty input
		b.WriteString("null")
		return nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			b.WriteString("null")
			return nil
		}
		return writeYAMLNode(b, n.Content[0])
	case yaml.AliasNode:
		return writeYAMLNode(b, n.Alias)
	case yaml.SequenceNode:
		b.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeYAMLNode(b, c); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	case yaml.MappingNode:
		b.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			if i > 0 {
				b.WriteByte(',')
			}
			key, err := j.Marshal(k.Value)
			if err != nil {
				return err
			}
			b.Write(key)
			b.WriteByte(':')
			if err := writeYAMLNode(b, v); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil
	case yaml.ScalarNode:
		return writeYAMLScalar(b, n)
	}
	return fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// writeYAMLScalar writes strings as written and resolves every other tag
// (numbers, booleans, null, timestamps) through the YAML decoder.
func writeYAMLScalar(b *bytes.Buffer, n *yaml.Node) error {
	var v any = n.Value
	if n.ShortTag() != "!!str" {
		if err := n.Decode(&v); err != nil {
			return err
		}
	}
	out, err := j.Marshal(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	b.Write(out)
	return nil
}
