package idl

import (
	"strconv"
	"strings"

	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// PathPart is one segment of a Path (§3, §4.8): either a non-negative
// integer index or a string key. IsIndex distinguishes the two even though
// an all-digit key is syntactically ambiguous with an index - §4.8's
// grammar resolves the ambiguity by always treating an all-digit part as
// an index.
type PathPart struct {
	IsIndex bool
	Index   int
	Key     string
}

// Path is an ordered sequence of parts (§3).
type Path []PathPart

// ParsePath parses the dotted/indexed path grammar of §4.8:
// part ( '.' part )*, where part is one or more digits (an index) or any
// other non-empty run (a key). An empty string parses to an empty Path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	out := make(Path, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil && strings.Trim(p, "0123456789") == "" {
			out = append(out, PathPart{IsIndex: true, Index: n})
		} else {
			out = append(out, PathPart{Key: p})
		}
	}
	return out
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, part := range p {
		if part.IsIndex {
			parts[i] = strconv.Itoa(part.Index)
		} else {
			parts[i] = part.Key
		}
	}
	return strings.Join(parts, ".")
}

// Eval evaluates p against v (§4.8): an Object requires a key part, an
// Array requires an index part within bounds, a scalar (Null/Bool/Number/
// String/Bytes) accepts only an empty remaining path. Any mismatch yields
// PathNotFound/PathTypeMismatch.
func Eval(v *Value, p Path) (*Value, error) {
	cur := v
	for i, part := range p {
		if cur == nil {
			return nil, idlerr.New(idlerr.KindPathNotFound, "nil value at "+p[:i].String())
		}
		switch cur.Kind {
		case KindObject:
			if part.IsIndex {
				return nil, idlerr.New(idlerr.KindPathTypeMismatch, "expected key, got index at "+p[:i+1].String())
			}
			next, ok := cur.ObjectGet(part.Key)
			if !ok {
				return nil, idlerr.New(idlerr.KindPathNotFound, p[:i+1].String())
			}
			cur = next
		case KindArray:
			if !part.IsIndex {
				return nil, idlerr.New(idlerr.KindPathTypeMismatch, "expected index, got key at "+p[:i+1].String())
			}
			items, _ := cur.AsArray()
			if part.Index < 0 || part.Index >= len(items) {
				return nil, idlerr.New(idlerr.KindPathNotFound, p[:i+1].String())
			}
			cur = items[part.Index]
		default:
			return nil, idlerr.New(idlerr.KindPathNotFound, "scalar has no children at "+p[:i].String())
		}
	}
	return cur, nil
}
