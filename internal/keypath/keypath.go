// Package keypath parses dotted property keys with optional bracket indices
// (e.g. "versionControlProvenance[0].repositoryUri") and resolves them against
// generic nested documents.
package keypath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// segmentKind discriminates mapping keys from sequence indices.
type segmentKind int

const (
	kindKey segmentKind = iota
	kindIndex
)

// Segment is a single step in a property key path.
type Segment struct {
	kind  segmentKind
	key   string
	index int
}

// KeySegment returns a segment addressing a mapping entry.
func KeySegment(key string) Segment {
	return Segment{kind: kindKey, key: key}
}

// IndexSegment returns a segment addressing a sequence element.
func IndexSegment(index int) Segment {
	return Segment{kind: kindIndex, index: index}
}

// Path is the parsed form of a dotted property key.
type Path struct {
	segments []Segment
}

// Parse tokenizes a dotted property key into typed segments. Keys are
// separated by dots, sequence indices are written as bracketed non-negative
// integers. Malformed keys are reported as errors; absence of the addressed
// value is not this layer's concern.
func Parse(key string) (Path, error) {
	if key == "" {
		return Path{}, fmt.Errorf("property key is empty")
	}

	var segments []Segment
	i := 0
	expectSegment := true
	for i < len(key) {
		switch key[i] {
		case '[':
			end := strings.IndexByte(key[i:], ']')
			if end < 0 {
				return Path{}, fmt.Errorf("unterminated index in property key %q", key)
			}
			raw := key[i+1 : i+end]
			index, err := strconv.Atoi(raw)
			if err != nil || index < 0 {
				return Path{}, fmt.Errorf("invalid sequence index %q in property key %q", raw, key)
			}
			segments = append(segments, IndexSegment(index))
			i += end + 1
			expectSegment = false
		case '.':
			if expectSegment {
				return Path{}, fmt.Errorf("empty segment in property key %q", key)
			}
			i++
			expectSegment = true
			if i == len(key) {
				return Path{}, fmt.Errorf("property key %q ends with a separator", key)
			}
		case ']':
			return Path{}, fmt.Errorf("unexpected ']' in property key %q", key)
		default:
			j := i
			for j < len(key) && key[j] != '.' && key[j] != '[' && key[j] != ']' {
				j++
			}
			segments = append(segments, KeySegment(key[i:j]))
			i = j
			expectSegment = false
		}
	}

	return Path{segments: segments}, nil
}

// Pointer renders the path in JSON Pointer (RFC 6901) form: a leading
// separator, dots and bracket indices replaced by separators.
func (p Path) Pointer() string {
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		if s.kind == kindIndex {
			b.WriteString(strconv.Itoa(s.index))
		} else {
			b.WriteString(jsonpointer.Escape(s.key))
		}
	}
	return b.String()
}

// Resolve walks the document segment by segment: mapping lookup by key,
// sequence lookup by index. A missing key, an out-of-range index, a
// type-incompatible step or a path deeper than the document all yield
// (nil, false); absence is not an error. The document is never mutated.
func (p Path) Resolve(document interface{}) (interface{}, bool) {
	ptr, err := jsonpointer.New(p.Pointer())
	if err != nil {
		return nil, false
	}
	value, _, err := ptr.Get(document)
	if err != nil {
		return nil, false
	}
	return value, true
}
