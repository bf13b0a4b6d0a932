package isotag

import "sort"

// Component is one node of a decoded (or to-be-encoded) value tree.
// A leaf holds an opaque byte value; a composite holds child components
// keyed by sub-field number. Children are owned exclusively by their
// parent. Storage order is irrelevant; Pack always emits children in
// ascending field order.
type Component struct {
	fieldNum int
	value    []byte
	children map[int]*Component
}

// NewComposite creates an empty composite component for the given field.
func NewComposite(fieldNum int) *Component {
	return &Component{
		fieldNum: fieldNum,
		children: make(map[int]*Component),
	}
}

// NewLeaf creates a leaf component. The value is copied.
func NewLeaf(fieldNum int, value []byte) *Component {
	c := &Component{fieldNum: fieldNum}
	if value != nil {
		c.value = make([]byte, len(value))
		copy(c.value, value)
	}
	return c
}

// FieldNum returns the sub-field number this component occupies.
func (c *Component) FieldNum() int {
	return c.fieldNum
}

// IsComposite reports whether the component can hold children.
func (c *Component) IsComposite() bool {
	return c.children != nil
}

// Value returns the leaf payload. Composites return nil.
func (c *Component) Value() []byte {
	return c.value
}

// String returns the leaf payload as a string.
func (c *Component) String() string {
	return string(c.value)
}

// Set attaches a child under its own field number, replacing any
// previous child with that number. Setting on a leaf is a no-op.
func (c *Component) Set(child *Component) {
	if c.children == nil || child == nil {
		return
	}
	c.children[child.fieldNum] = child
}

// Child returns the child with the given field number.
func (c *Component) Child(fieldNum int) (*Component, bool) {
	child, ok := c.children[fieldNum]
	return child, ok
}

// Children returns the child map. Callers must not mutate it.
func (c *Component) Children() map[int]*Component {
	return c.children
}

// MaxField returns the highest field number present among the children,
// or 0 for an empty composite or a leaf.
func (c *Component) MaxField() int {
	max := 0
	for num := range c.children {
		if num > max {
			max = num
		}
	}
	return max
}

// PresentFields returns the child field numbers in ascending order.
func (c *Component) PresentFields() []int {
	fields := make([]int, 0, len(c.children))
	for num := range c.children {
		fields = append(fields, num)
	}
	sort.Ints(fields)
	return fields
}

// Clone creates a deep copy of the component tree.
func (c *Component) Clone() *Component {
	clone := &Component{fieldNum: c.fieldNum}
	if c.value != nil {
		clone.value = make([]byte, len(c.value))
		copy(clone.value, c.value)
	}
	if c.children != nil {
		clone.children = make(map[int]*Component, len(c.children))
		for num, child := range c.children {
			clone.children[num] = child.Clone()
		}
	}
	return clone
}
