package cache

// Node is an element of a List.
// A node stores its key so that the owner can drop map entries in O(1)
// when the node is evicted.
type Node[K comparable] struct {
	Key  K
	prev *Node[K]
	next *Node[K]
	list *List[K]
}

// List is a doubly-linked recency list.
// The front is the most recently used key, the back the least recently used.
//
// List is not safe for concurrent use; callers must handle synchronization.
type List[K comparable] struct {
	head *Node[K]
	tail *Node[K]
	len  int
}

// NewList creates an empty list.
func NewList[K comparable]() *List[K] {
	return &List[K]{}
}

// Len returns the number of nodes in the list.
func (l *List[K]) Len() int {
	return l.len
}

// PushFront inserts key as the most recently used node and returns it.
func (l *List[K]) PushFront(key K) *Node[K] {
	node := &Node[K]{Key: key, list: l}
	l.linkFront(node)
	return node
}

// MoveToFront marks node as the most recently used.
// Nodes that belong to another list, or to no list, are ignored.
func (l *List[K]) MoveToFront(node *Node[K]) {
	if node == nil || node.list != l || node == l.head {
		return
	}
	l.unlink(node)
	l.linkFront(node)
}

// Remove removes node from the list.
func (l *List[K]) Remove(node *Node[K]) {
	if node == nil || node.list != l {
		return
	}
	l.unlink(node)
	node.list = nil
}

// RemoveOldest removes and returns the least recently used key.
// Returns zero value and false if the list is empty.
func (l *List[K]) RemoveOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	node := l.tail
	l.Remove(node)
	return node.Key, true
}

// Oldest returns the least recently used key without removing it.
// Returns zero value and false if the list is empty.
func (l *List[K]) Oldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	return l.tail.Key, true
}

// OldestFunc returns the least recently used node whose key satisfies keep,
// or nil when no key does. Walks from the back.
func (l *List[K]) OldestFunc(keep func(K) bool) *Node[K] {
	for n := l.tail; n != nil; n = n.prev {
		if keep(n.Key) {
			return n
		}
	}
	return nil
}

// Keys returns the keys from most to least recently used.
func (l *List[K]) Keys() []K {
	keys := make([]K, 0, l.len)
	for n := l.head; n != nil; n = n.next {
		keys = append(keys, n.Key)
	}
	return keys
}

// Clear removes all nodes from the list.
func (l *List[K]) Clear() {
	for n := l.head; n != nil; {
		next := n.next
		n.prev, n.next, n.list = nil, nil, nil
		n = next
	}
	l.head = nil
	l.tail = nil
	l.len = 0
}

func (l *List[K]) linkFront(node *Node[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	} else {
		l.tail = node
	}
	l.head = node
	l.len++
}

// unlink detaches node and keeps its list pointer.
func (l *List[K]) unlink(node *Node[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
