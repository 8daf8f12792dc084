package reconcile

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder is the value written for every model in a fresh template.
const Placeholder = "CHANGE_ME"

// createKeywords are the template values that request a new device type.
var createKeywords = []string{"create", strconv.Itoa(SentinelCreateNew), "99999"}

func isCreateKeyword(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, k := range createKeywords {
		if v == k {
			return true
		}
	}
	return false
}

// WriteTemplate writes a YAML document with one key per pending model. The
// ranked candidates are listed in the comment above each key.
func WriteTemplate(w io.Writer, prompts []Prompt) error {
	doc := &yaml.Node{
		Kind:        yaml.MappingNode,
		HeadComment: "Replace " + Placeholder + " with the id of the matching device type,\nor with \"create\" to create a new one.",
	}

	for _, p := range prompts {
		var comment strings.Builder
		for _, c := range p.Candidates {
			fmt.Fprintf(&comment, "%s: %s (%d)\n", c.ID, c.Value(p.Field), c.Score)
		}
		if comment.Len() == 0 {
			comment.WriteString("no candidates\n")
		}

		doc.Content = append(doc.Content,
			&yaml.Node{
				Kind:        yaml.ScalarNode,
				Tag:         "!!str",
				Value:       p.Model,
				HeadComment: strings.TrimSuffix(comment.String(), "\n"),
			},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: Placeholder},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{doc}}); err != nil {
		return fmt.Errorf("failed to write decision template: %w", err)
	}
	return enc.Close()
}

// ParseTemplate reads the values of an edited template.
func ParseTemplate(r io.Reader) (map[string]string, error) {
	values := map[string]string{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read decision template: %w", err)
	}
	for k, v := range values {
		values[k] = strings.TrimSpace(v)
	}
	return values, nil
}
