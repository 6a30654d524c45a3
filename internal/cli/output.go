package cli

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gosyntax/internal/ui/pretty"
	"github.com/yaklabco/gosyntax/pkg/config"
	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/red"
)

// yamlNode is the YAML view of a red node. Lists are flattened away.
type yamlNode struct {
	Kind        string           `yaml:"kind"`
	Span        string           `yaml:"span"`
	Text        *string          `yaml:"text,omitempty"`
	Missing     bool             `yaml:"missing,omitempty"`
	Leading     []yamlTrivia     `yaml:"leading,omitempty"`
	Trailing    []yamlTrivia     `yaml:"trailing,omitempty"`
	Annotations []yamlAnnotation `yaml:"annotations,omitempty"`
	Diagnostics []yamlDiagnostic `yaml:"diagnostics,omitempty"`
	Children    []yamlNode       `yaml:"children,omitempty"`
	Elided      bool             `yaml:"elided,omitempty"`
}

type yamlTrivia struct {
	Kind string `yaml:"kind"`
	Text string `yaml:"text"`
}

type yamlAnnotation struct {
	Kind string `yaml:"kind"`
	Data string `yaml:"data"`
}

type yamlDiagnostic struct {
	Code     string `yaml:"code"`
	Severity string `yaml:"severity"`
	Message  string `yaml:"message,omitempty"`
	Offset   int    `yaml:"offset"`
	Width    int    `yaml:"width"`
}

// toYAMLNode converts n and its descendants down to pretty.MaxTreeDepth
// levels; deeper children are dropped and the node is marked elided.
func toYAMLNode(n *red.Node, withTrivia bool, depth int) yamlNode {
	out := yamlNode{
		Kind: n.Kind().String(),
		Span: n.Span().String(),
	}
	g := n.Green()
	for _, a := range g.Annotations() {
		out.Annotations = append(out.Annotations, yamlAnnotation{Kind: a.Kind, Data: a.Data})
	}
	for _, d := range g.Diagnostics() {
		out.Diagnostics = append(out.Diagnostics, yamlDiagnostic{
			Code:     d.Code,
			Severity: string(d.Severity),
			Message:  d.Message,
			Offset:   d.Offset,
			Width:    d.Width,
		})
	}

	if tok := n.Token(); tok != nil {
		text := tok.Text()
		out.Text = &text
		out.Missing = tok.IsMissing()
		if withTrivia {
			out.Leading = toYAMLTrivia(tok.Leading())
			out.Trailing = toYAMLTrivia(tok.Trailing())
		}
		return out
	}

	out.Span = n.FullSpan().String()
	if depth >= pretty.MaxTreeDepth {
		out.Elided = n.SlotCount() > 0
		return out
	}
	for child := range n.Children() {
		out.Children = append(out.Children, toYAMLNode(child, withTrivia, depth+1))
	}
	return out
}

func toYAMLTrivia(n green.Node) []yamlTrivia {
	if n == nil {
		return nil
	}
	pieces := []green.Node{n}
	if n.IsList() {
		pieces = pieces[:0]
		for piece := range green.Children(n) {
			pieces = append(pieces, piece)
		}
	}

	out := make([]yamlTrivia, 0, len(pieces))
	for _, piece := range pieces {
		if t, ok := piece.(*green.Trivia); ok {
			out = append(out, yamlTrivia{Kind: t.Kind().String(), Text: t.Text()})
		}
	}
	return out
}

// writeTree prints root in the configured format.
func writeTree(w io.Writer, styles *pretty.Styles, root *red.Node, format config.OutputFormat, opts pretty.TreeOptions) error {
	if format != config.FormatYAML {
		return styles.RenderTree(w, root, opts)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(config.YAMLIndent())
	if err := encoder.Encode(toYAMLNode(root, opts.ShowTrivia, 0)); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
