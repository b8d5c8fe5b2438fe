package pagedata

import (
	"bytes"
	stderrors "errors"

	"gopkg.in/yaml.v3"
)

// ErrUnterminatedFrontMatter is returned when a document opens a front matter
// block that is never closed.
var ErrUnterminatedFrontMatter = stderrors.New("front matter opening delimiter without closing delimiter")

// splitFrontMatter separates a leading `---` delimited YAML block from the body.
// Documents without one return a nil front matter and the full input as body.
func splitFrontMatter(content []byte) (fm, body []byte, err error) {
	nl := []byte("\n")
	if bytes.HasPrefix(content, []byte("---\r\n")) {
		nl = []byte("\r\n")
	} else if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, content, nil
	}

	open := append([]byte("---"), nl...)
	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], nil
	}

	closing := append(append(append([]byte{}, nl...), "---"...), nl...)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		tail := append(append([]byte{}, nl...), "---"...)
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+len(nl)], nil, nil
		}
		return nil, nil, ErrUnterminatedFrontMatter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], nil
}

func parseFrontMatter(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
