package repository

import (
	"math/rand"

	"github.com/google/uuid"
)

// Treap ordering for the rating board: points DESC, then athlete id ASC so
// traversal order is deterministic across runs.

type treapNode struct {
	id     uuid.UUID
	points int
	prio   uint64
	left   *treapNode
	right  *treapNode
	size   int
}

func nodeSize(n *treapNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fixSize(n *treapNode) {
	if n != nil {
		n.size = 1 + nodeSize(n.left) + nodeSize(n.right)
	}
}

// ranksBefore reports whether (aPoints, aID) appears before (bPoints, bID)
// on the rating board.
func ranksBefore(aPoints int, aID uuid.UUID, bPoints int, bID uuid.UUID) bool {
	if aPoints != bPoints {
		return aPoints > bPoints
	}
	return aID.String() < bID.String()
}

func rotateRight(y *treapNode) *treapNode {
	x := y.left
	y.left = x.right
	x.right = y
	fixSize(y)
	fixSize(x)
	return x
}

func rotateLeft(x *treapNode) *treapNode {
	y := x.right
	x.right = y.left
	y.left = x
	fixSize(x)
	fixSize(y)
	return y
}

func treapInsert(n *treapNode, id uuid.UUID, points int) *treapNode {
	if n == nil {
		return &treapNode{id: id, points: points, prio: rand.Uint64(), size: 1}
	}
	if ranksBefore(points, id, n.points, n.id) {
		n.left = treapInsert(n.left, id, points)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = treapInsert(n.right, id, points)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fixSize(n)
	return n
}

func treapDelete(n *treapNode, id uuid.UUID, points int) *treapNode {
	if n == nil {
		return nil
	}
	switch {
	case points == n.points && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = treapDelete(n.right, id, points)
		} else {
			n = rotateLeft(n)
			n.left = treapDelete(n.left, id, points)
		}
	case ranksBefore(points, id, n.points, n.id):
		n.left = treapDelete(n.left, id, points)
	default:
		n.right = treapDelete(n.right, id, points)
	}
	fixSize(n)
	return n
}

// collectTop appends up to limit ids in rank order (best first).
func collectTop(n *treapNode, limit int, out *[]uuid.UUID) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTop(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.id)
	}
	if len(*out) < limit {
		collectTop(n.right, limit, out)
	}
}
