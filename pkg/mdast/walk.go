package mdast

import "errors"

// SkipChildren may be returned by an enter callback to continue the walk
// without descending into the node. The node's leave callback still runs.
//
//nolint:errname,revive // named like fs.SkipDir
var SkipChildren = errors.New("skip children")

var errFound = errors.New("found")

// WalkFunc is called for each visited node. A non-nil error other than
// SkipChildren stops the walk and is returned by it.
type WalkFunc func(n *Node) error

// WalkContextFunc is an enter or leave callback for WalkWithContext.
type WalkContextFunc = WalkFunc

// Walk visits root and its descendants in document order, parents first.
func Walk(root *Node, fn WalkFunc) error {
	return WalkWithContext(root, fn, nil)
}

// WalkWithContext visits the tree calling enter before a node's children and
// leave after them. Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkContextFunc) error {
	if root == nil {
		return nil
	}

	descend := true
	if enter != nil {
		switch err := enter(root); {
		case errors.Is(err, SkipChildren):
			descend = false
		case err != nil:
			return err
		}
	}

	if descend {
		for child := root.FirstChild; child != nil; child = child.Next {
			if err := WalkWithContext(child, enter, leave); err != nil {
				return err
			}
		}
	}

	if leave != nil {
		if err := leave(root); err != nil && !errors.Is(err, SkipChildren) {
			return err
		}
	}
	return nil
}

// FindAll returns the nodes under root, root included, that match.
func FindAll(root *Node, match func(n *Node) bool) []*Node {
	var found []*Node
	_ = Walk(root, func(n *Node) error {
		if match(n) {
			found = append(found, n)
		}
		return nil
	})
	return found
}

// FindFirst returns the first matching node in document order, or nil.
func FindFirst(root *Node, match func(n *Node) bool) *Node {
	var found *Node
	_ = Walk(root, func(n *Node) error {
		if match(n) {
			found = n
			return errFound
		}
		return nil
	})
	return found
}

// FindByKind returns every node of kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool { return n.Kind == kind })
}
