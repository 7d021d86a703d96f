// Package frontmatter splits content files into their YAML front matter block
// and body, and decodes the front matter into document metadata.
package frontmatter

import (
	"bytes"
	"errors"
)

// Style captures the formatting details needed to reassemble a document
// byte-for-byte after Split.
type Style struct {
	Newline string
	// BOM is set when the input started with a UTF-8 byte order mark.
	BOM bool
	// ClosedAtEOF is set when the closing delimiter is the last line and has
	// no trailing newline.
	ClosedAtEOF bool
}

const (
	delimiter = "---"
	bom       = "\ufeff"
)

var (
	// ErrMissingFrontMatter indicates the document does not start with a `---` delimiter.
	ErrMissingFrontMatter = errors.New("front matter block is missing")

	// ErrMissingClosingDelimiter indicates the document started with a YAML
	// front matter delimiter but did not contain a closing delimiter.
	ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")
)

// Split separates YAML front matter (`---` delimited) from the body.
// A leading byte order mark is skipped, and the closing delimiter may end
// the input without a newline.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = Style{Newline: detectNewline(content)}

	text := content
	if bytes.HasPrefix(text, []byte(bom)) {
		style.BOM = true
		text = text[len(bom):]
	}

	nl := style.Newline
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(text, open) {
		return nil, content, false, Style{Newline: style.Newline}, nil
	}

	rest := text[len(open):]
	closeLine := []byte(delimiter + nl)
	switch {
	case bytes.HasPrefix(rest, closeLine):
		return []byte{}, rest[len(closeLine):], true, style, nil
	case string(rest) == delimiter:
		style.ClosedAtEOF = true
		return []byte{}, []byte{}, true, style, nil
	}

	closeSeq := []byte(nl + delimiter + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		end := idx + len(nl)
		return rest[:end], rest[idx+len(closeSeq):], true, style, nil
	}

	if bytes.HasSuffix(rest, []byte(nl+delimiter)) {
		style.ClosedAtEOF = true
		return rest[:len(rest)-len(delimiter)], []byte{}, true, style, nil
	}

	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// Join reassembles a document from raw front matter and body. It is the
// inverse of Split: Join(Split(x)) == x.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	open := []byte(delimiter + nl)
	closing := open
	if style.ClosedAtEOF {
		closing = []byte(delimiter)
	}

	out := make([]byte, 0, len(bom)+len(open)+len(closing)+len(frontmatter)+len(body))
	if style.BOM {
		out = append(out, bom...)
	}
	out = append(out, open...)
	out = append(out, frontmatter...)
	out = append(out, closing...)
	out = append(out, body...)
	return out
}

func detectNewline(content []byte) string {
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if i > 0 && content[i-1] == '\r' {
				return "\r\n"
			}
			return "\n"
		}
	}
	return "\n"
}
