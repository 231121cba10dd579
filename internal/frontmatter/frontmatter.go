// Package frontmatter locates, parses and strips the leading YAML block of a
// Markdown note.
//
// A block starts on the first line of the document with a line that is
// exactly `---` and ends at the next line that is exactly `---`. Both
// delimiter lines, including their line terminators, belong to the block.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// ErrNotMapping indicates the frontmatter parsed as YAML but is not a mapping.
var ErrNotMapping = errors.New("yaml frontmatter is not a mapping")

// Style captures formatting details needed for stable rewriting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Cut returns the complete leading block (delimiters and their terminators
// included) and the remaining body, so that block+body always equals content.
//
// found is false when the document has no opening delimiter; err is
// ErrMissingClosingDelimiter when it opens a block that never closes. In both
// cases block is empty and body is the full input.
func Cut(content []byte) (block []byte, body []byte, found bool, err error) {
	_, bodyStart, ok, err := scan(content)
	if !ok || err != nil {
		return nil, content, false, err
	}
	return content[:bodyStart], content[bodyStart:], true, nil
}

// Split separates YAML frontmatter from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	fm, bodyStart, ok, err := scan(content)
	if err != nil {
		return nil, nil, false, style, err
	}
	if !ok {
		return nil, content, false, style, nil
	}
	return fm, content[bodyStart:], true, style, nil
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is. Documents whose delimiters use a
// single newline style reconstruct byte-for-byte; use Cut when the exact
// original block is needed.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	out := make([]byte, 0, 2*(len(delimiter)+len(nl))+len(frontmatter)+len(body))
	out = append(out, delimiter+nl...)
	out = append(out, frontmatter...)
	out = append(out, delimiter+nl...)
	out = append(out, body...)
	return out
}

// Strip removes the first frontmatter block. Content without a complete
// block is returned unchanged.
func Strip(content []byte) []byte {
	_, body, _, _ := Cut(content)
	return body
}

// Parse extracts the frontmatter fields of a document.
//
// The returned map is never nil. A document without a (complete) block yields
// an empty map and no error; a block that is not a YAML mapping yields an
// empty map together with the parse error so callers can report it.
func Parse(content []byte) (Metadata, error) {
	fm, _, had, _, err := Split(content)
	if errors.Is(err, ErrMissingClosingDelimiter) || !had {
		return Metadata{}, nil
	}
	if err != nil {
		return Metadata{}, err
	}

	fields, err := ParseYAML(fm)
	if err != nil {
		return Metadata{}, err
	}
	return fields, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (Metadata, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return Metadata{}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(frontmatter, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return Metadata{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return Metadata{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	var fields map[string]any
	if err := root.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// scan walks the document line by line. It returns the raw frontmatter and
// the offset where the body starts.
func scan(content []byte) (fm []byte, bodyStart int, ok bool, err error) {
	line, next := readLine(content, 0)
	if line == nil || string(line) != delimiter {
		return nil, 0, false, nil
	}

	fmStart := next
	for pos := next; pos < len(content); {
		line, next = readLine(content, pos)
		if string(line) == delimiter {
			return content[fmStart:pos], next, true, nil
		}
		pos = next
	}
	return nil, 0, false, ErrMissingClosingDelimiter
}

// readLine returns the line starting at pos without its terminator (\n or
// \r\n) and the offset of the following line.
func readLine(content []byte, pos int) (line []byte, next int) {
	if pos >= len(content) {
		return nil, pos
	}
	rest := content[pos:]
	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 {
		return rest, len(content)
	}
	line = rest[:idx]
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line, pos + idx + 1
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
