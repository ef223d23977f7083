package abletonxml

import "strings"

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a decoded document.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Parent   *Node
	Children []*Node
}

// Attr returns the named attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or fallback when it is missing.
func (n *Node) AttrOr(name, fallback string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return fallback
}

// Value returns the Value attribute, the way Ableton stores nearly every scalar.
func (n *Node) Value() (string, bool) {
	return n.Attr("Value")
}

// Prop reads a scalar stored either as an attribute or, the way Live writes
// most settings, as the Value of a same-named child element.
func (n *Node) Prop(name string) (string, bool) {
	if v, ok := n.Attr(name); ok {
		return v, true
	}
	return n.Child(name).Value()
}

// Child returns the first direct child with the given tag.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct children with the given tag in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// At follows a slash separated chain of child tags, e.g. "MacroControls.0/Manual".
func (n *Node) At(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// ValueAt returns the Value attribute of the node at path.
func (n *Node) ValueAt(path string) (string, bool) {
	target := n.At(path)
	if target == nil {
		return "", false
	}
	return target.Value()
}

// Find returns the first descendant (excluding n) with the given tag in
// document order.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindSelf is Find but also considers n itself.
func (n *Node) FindSelf(name string) *Node {
	if n != nil && n.Name == name {
		return n
	}
	return n.Find(name)
}

// FindAttr returns the first attribute called name on n or any descendant,
// in document order.
func (n *Node) FindAttr(name string) (string, bool) {
	if v, ok := n.Attr(name); ok {
		return v, true
	}
	var (
		value string
		found bool
	)
	n.walk(func(c *Node) bool {
		value, found = c.Attr(name)
		return !found
	})
	return value, found
}

// FindAll returns every descendant (excluding n) with the given tag in document order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if c.Name == name {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FindFunc returns every descendant for which match reports true.
func (n *Node) FindFunc(match func(*Node) bool) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Ancestor returns the closest ancestor whose tag satisfies match.
func (n *Node) Ancestor(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if match(p) {
			return p
		}
	}
	return nil
}

// Path returns the slash separated tag path from the document root.
func (n *Node) Path() string {
	if n == nil {
		return ""
	}
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// walk visits descendants in preorder until visit returns false.
func (n *Node) walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	stack := make([]*Node, 0, 32)
	for i := len(n.Children) - 1; i >= 0; i-- {
		stack = append(stack, n.Children[i])
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(cur) {
			return
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}
