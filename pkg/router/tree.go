package router

import "strings"

// node is a node in the matching tree.
type node struct {
	// segment is the static path segment this node matches
	segment string

	isParam    bool
	isCatchAll bool

	// paramName is the parameter name (without : or *)
	paramName string

	// paramType constrains parameter values (string, int, uint, uuid)
	paramType string

	// record is the route that ends at this node, if any
	record *MatchedRecord

	children      []*node
	paramChildren []*node
	catchAllChild *node
}

func newNode(segment string) *node {
	return &node{segment: segment}
}

// findChild finds a child node with an exact segment match.
func (n *node) findChild(segment string) *node {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

func (n *node) addChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newNode(segment)
	n.children = append(n.children, child)
	return child
}

// addParamChild returns the parameter child for name and type. Siblings
// with different types are tried in registration order.
func (n *node) addParamChild(name, paramType string) *node {
	for _, child := range n.paramChildren {
		if child.paramName == name && child.paramType == paramType {
			return child
		}
	}
	child := newNode("")
	child.isParam = true
	child.paramName = name
	child.paramType = paramType
	n.paramChildren = append(n.paramChildren, child)
	return child
}

func (n *node) addCatchAllChild(name string) *node {
	if n.catchAllChild != nil {
		return n.catchAllChild
	}
	child := newNode("")
	child.isCatchAll = true
	child.paramName = name
	n.catchAllChild = child
	return child
}

// insert walks or creates the nodes for a validated pattern.
func (n *node) insert(pattern string) *node {
	current := n
	for _, seg := range splitPath(pattern) {
		switch {
		case strings.HasPrefix(seg, "*"):
			return current.addCatchAllChild(seg[1:])
		case strings.HasPrefix(seg, ":"):
			name, typ := parseParamSegment(seg)
			current = current.addParamChild(name, typ)
		default:
			current = current.addChild(seg)
		}
	}
	return current
}

// match finds the node ending a route for segments, filling params.
// Static children win over parameters, parameters over catch-alls.
func (n *node) match(segments []string, params map[string]string) *node {
	if len(segments) == 0 {
		if n.record != nil {
			return n
		}
		return nil
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		if found := child.match(remaining, params); found != nil {
			return found
		}
	}

	for _, child := range n.paramChildren {
		if !validParam(segment, child.paramType) {
			continue
		}
		params[child.paramName] = segment
		if found := child.match(remaining, params); found != nil {
			return found
		}
		delete(params, child.paramName)
	}

	if n.catchAllChild != nil && n.catchAllChild.record != nil {
		params[n.catchAllChild.paramName] = strings.Join(segments, "/")
		return n.catchAllChild
	}
	return nil
}

// walk visits every node holding a record, depth first.
func (n *node) walk(fn func(*MatchedRecord)) {
	if n.record != nil {
		fn(n.record)
	}
	for _, c := range n.children {
		c.walk(fn)
	}
	for _, c := range n.paramChildren {
		c.walk(fn)
	}
	if n.catchAllChild != nil {
		n.catchAllChild.walk(fn)
	}
}
