// Package engine turns a JSON token stream into a node tree: objects become
// map[string]any, arrays []any, numbers json.Number, plus string, bool and nil.
// Duplicate keys, nesting depth and consumed bytes are checked on the way.
package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Kind is the kind of a token.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is one lexical token. Number keeps the source text; Offset is -1 when
// the driver cannot tell.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is what a driver provides.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Decode reads one value from src.
func Decode(src TokenSource, opt Options) (any, error) {
	d := &decoder{src: src, opt: opt, entry: -1}
	tok, err := d.next()
	if err != nil {
		return nil, err
	}
	return d.value(tok)
}

type decoder struct {
	src   TokenSource
	opt   Options
	segs  []string
	depth int
	entry int
}

func (d *decoder) next() (Token, error) {
	tok, err := d.src.NextToken()
	if err != nil {
		return Token{}, err
	}
	if d.opt.MaxBytes > 0 {
		if off := d.src.Location(); off > d.opt.MaxBytes {
			return Token{}, d.report(CodeTruncated, "max bytes exceeded", true)
		}
	}
	return tok, nil
}

// report hands an issue at the current path to OnIssue and returns it as an
// error when fatal.
func (d *decoder) report(code, msg string, fatal bool) error {
	is := Issue{Code: code, Path: pointer(d.segs), Entry: d.entry, Message: msg}
	if d.opt.OnIssue != nil {
		d.opt.OnIssue(is)
	}
	if fatal {
		return &Error{is}
	}
	return nil
}

func (d *decoder) value(tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		d.depth++
		defer func() { d.depth-- }()
		if d.opt.MaxDepth > 0 && d.depth > d.opt.MaxDepth {
			return nil, d.report(CodeParseError, "max depth exceeded", true)
		}
		if tok.Kind == KindBeginObject {
			return d.object()
		}
		return d.array()
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	}
	return nil, io.ErrUnexpectedEOF
}

func (d *decoder) object() (any, error) {
	m := make(map[string]any)
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, fmt.Errorf("expected object key, got token kind %d", tok.Kind)
		}
		d.segs = append(d.segs, tok.String)
		if _, seen := m[tok.String]; seen && d.opt.OnDuplicate != DupIgnore {
			if err := d.report(CodeDuplicateKey, "key '"+tok.String+"' duplicated", d.opt.OnDuplicate == DupError); err != nil {
				return nil, err
			}
		}
		vt, err := d.next()
		if err != nil {
			return nil, err
		}
		v, err := d.value(vt)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
		d.segs = d.segs[:len(d.segs)-1]
	}
}

func (d *decoder) array() (any, error) {
	top := len(d.segs) == 0 && d.depth == 1
	arr := []any{}
	for i := 0; ; i++ {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			if top {
				d.entry = -1
			}
			return arr, nil
		}
		if top {
			d.entry = i
		}
		d.segs = append(d.segs, strconv.Itoa(i))
		v, err := d.value(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		d.segs = d.segs[:len(d.segs)-1]
	}
}
