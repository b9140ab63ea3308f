// Package stripper turns an HTML document export into plain text in a single
// forward pass over a token stream. Script, style and head regions, inline
// comment anchors and everything outside the document sentinels are dropped,
// block tags become line breaks and character references are decoded.
package stripper

import "fmt"

// Kind discriminates markup tokens
type Kind int

const (
	StartTag Kind = iota
	EndTag
	SelfClosingTag
	TextData
	EntityRef
	CharRef
)

func (k Kind) String() string {
	switch k {
	case StartTag:
		return "start"
	case EndTag:
		return "end"
	case SelfClosingTag:
		return "self-closing"
	case TextData:
		return "text"
	case EntityRef:
		return "entity"
	case CharRef:
		return "charref"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is a single markup event. Name is set for tags, Attrs for start and
// self-closing tags, Data for text and entity names, CodePoint for character
// references.
type Token struct {
	Kind      Kind
	Name      string
	Attrs     map[string]string
	Data      string
	CodePoint uint32
}

func (t Token) String() string {
	switch t.Kind {
	case StartTag, EndTag, SelfClosingTag:
		return fmt.Sprintf("%s<%s>", t.Kind, t.Name)
	case CharRef:
		return fmt.Sprintf("%s(%#x)", t.Kind, t.CodePoint)
	default:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Data)
	}
}
