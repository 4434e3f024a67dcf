package engine

type containerFrame struct {
	object       bool
	expectingKey bool
}

// Framer tracks object/array nesting for token drivers whose decoders report
// object keys and string values with the same token type.
type Framer struct {
	stack []containerFrame
}

// Delim handles one of '{', '}', '[' or ']'.
func (f *Framer) Delim(d rune, off int64) Token {
	switch d {
	case '{':
		f.stack = append(f.stack, containerFrame{object: true, expectingKey: true})
		return Token{Kind: KindBeginObject, Offset: off}
	case '[':
		f.stack = append(f.stack, containerFrame{})
		return Token{Kind: KindBeginArray, Offset: off}
	case '}':
		f.pop()
		return Token{Kind: KindEndObject, Offset: off}
	default:
		f.pop()
		return Token{Kind: KindEndArray, Offset: off}
	}
}

// String classifies s as an object key or a string value.
func (f *Framer) String(s string, off int64) Token {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return Token{Kind: KindKey, String: s, Offset: off}
		}
	}
	return f.Scalar(Token{Kind: KindString, String: s, Offset: off})
}

// Scalar records that a value completed the current object member.
func (f *Framer) Scalar(t Token) Token {
	f.valueDone()
	return t
}

func (f *Framer) pop() {
	if n := len(f.stack); n > 0 {
		f.stack = f.stack[:n-1]
	}
	f.valueDone()
}

func (f *Framer) valueDone() {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
