package gemtext

import "strings"

// Render serializes a finished node sequence: each node's rendering joined
// by a blank line, with exactly one trailing newline. A node that fails to
// render aborts the whole serialization with no partial output.
func Render(nodes []Node) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		text, err := n.Gemtext()
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}
