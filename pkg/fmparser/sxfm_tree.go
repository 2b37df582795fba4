// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

const (
	nodeRoot nodeKind = iota
	nodeMandatory
	nodeOptional
	nodeGroup
	nodeGrouped
)

// unbounded is the group cardinality written as "*".
const unbounded = -1

type (
	nodeKind int

	// sxfmNode is one line of a SPLOT feature tree.
	sxfmNode struct {
		kind     nodeKind
		name     string
		id       string
		min, max int
		line     int
		parent   *sxfmNode
		children []*sxfmNode
	}
)

func (k nodeKind) String() string {
	switch k {
	case nodeRoot:
		return "root"
	case nodeMandatory:
		return "mandatory"
	case nodeOptional:
		return "optional"
	case nodeGroup:
		return "group"
	default:
		return "grouped"
	}
}

// isFeature reports whether the node becomes a feature of the model.
func (n *sxfmNode) isFeature() bool { return n.kind != nodeGroup }

// parseSXFMTree parses the indentation tree held by <feature_tree>. Nesting
// follows indentation width; tabs and spaces both count as one column.
func parseSXFMTree(text string) (*sxfmNode, error) {
	type frame struct {
		indent int
		node   *sxfmNode
	}

	var (
		root  *sxfmNode
		stack []frame
	)

	sc := bufio.NewScanner(strings.NewReader(text))
	for lineNo := 1; sc.Scan(); lineNo++ {
		raw := strings.TrimRight(sc.Text(), " \t\r")
		body := strings.TrimLeft(raw, " \t")
		if body == "" {
			continue
		}
		indent := len(raw) - len(body)

		n, err := parseSXFMLine(body, lineNo)
		if err != nil {
			return nil, err
		}

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			if root != nil {
				return nil, fmt.Errorf("line %d: more than one root feature", lineNo)
			}
			if n.kind != nodeRoot {
				return nil, fmt.Errorf("line %d: tree must start with a :r root feature", lineNo)
			}
			root = n
		} else {
			parent := stack[len(stack)-1].node
			if err := checkNesting(parent, n); err != nil {
				return nil, err
			}
			n.parent = parent
			parent.children = append(parent.children, n)
		}
		stack = append(stack, frame{indent: indent, node: n})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("feature tree is empty")
	}
	return root, nil
}

func checkNesting(parent, child *sxfmNode) error {
	switch {
	case child.kind == nodeRoot:
		return fmt.Errorf("line %d: root feature %q must not be nested", child.line, child.name)
	case parent.kind == nodeGroup && child.kind != nodeGrouped:
		return fmt.Errorf("line %d: %s feature %q inside group %q must be a grouped feature",
			child.line, child.kind, child.name, parent.id)
	case parent.kind != nodeGroup && child.kind == nodeGrouped:
		return fmt.Errorf("line %d: grouped feature %q must be inside a group", child.line, child.name)
	}
	return nil
}

// parseSXFMLine parses one tree line:
//
//	:r Name (id)
//	:m Name (id)
//	:o Name (id)
//	:g (id) [min,max]
//	: Name (id)
func parseSXFMLine(body string, lineNo int) (*sxfmNode, error) {
	if !strings.HasPrefix(body, ":") || len(body) < 2 {
		return nil, fmt.Errorf("line %d: %q is not a feature tree line", lineNo, body)
	}

	n := &sxfmNode{line: lineNo}
	rest := body[2:]
	switch body[1] {
	case 'r':
		n.kind = nodeRoot
	case 'm':
		n.kind = nodeMandatory
	case 'o':
		n.kind = nodeOptional
	case 'g':
		n.kind = nodeGroup
	case ' ', '\t':
		n.kind = nodeGrouped
		rest = body[1:]
	default:
		return nil, fmt.Errorf("line %d: unknown node marker %q", lineNo, body[:2])
	}
	rest = strings.TrimSpace(rest)

	if n.kind == nodeGroup {
		return parseGroup(n, rest)
	}

	n.name, n.id = splitNameID(rest)
	if n.name == "" {
		return nil, fmt.Errorf("line %d: feature name cannot be blank", lineNo)
	}
	return n, nil
}

// splitNameID splits "Name (id)". Without an id the name doubles as id.
func splitNameID(s string) (name, id string) {
	if strings.HasSuffix(s, ")") {
		if open := strings.LastIndex(s, "("); open >= 0 {
			name = strings.TrimSpace(s[:open])
			id = strings.TrimSpace(s[open+1 : len(s)-1])
			if id != "" {
				if name == "" {
					name = id
				}
				return name, id
			}
			s = name
		}
	}
	s = strings.TrimSpace(s)
	return s, s
}

func parseGroup(n *sxfmNode, rest string) (*sxfmNode, error) {
	open := strings.LastIndex(rest, "[")
	if open < 0 || !strings.HasSuffix(rest, "]") {
		return nil, fmt.Errorf("line %d: group %q has no [min,max] cardinality", n.line, rest)
	}

	n.name, n.id = splitNameID(strings.TrimSpace(rest[:open]))

	lo, hi, ok := strings.Cut(rest[open+1:len(rest)-1], ",")
	if !ok {
		return nil, fmt.Errorf("line %d: malformed group cardinality %q", n.line, rest[open:])
	}
	var err error
	if n.min, err = parseBound(lo); err != nil {
		return nil, fmt.Errorf("line %d: group minimum: %w", n.line, err)
	}
	if n.max, err = parseBound(hi); err != nil {
		return nil, fmt.Errorf("line %d: group maximum: %w", n.line, err)
	}
	return n, nil
}

func parseBound(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "*" {
		return unbounded, nil
	}
	return strconv.Atoi(s)
}
