package isotag

import "sync"

// Builder pool for reuse
var builderPool = sync.Pool{
	New: func() interface{} {
		return &Builder{
			errors: make([]error, 0, 4),
		}
	},
}

// Builder assembles a composite component tree fluently. Errors are
// accumulated and surfaced by Build.
type Builder struct {
	root   *Component
	errors []error
}

func NewBuilder(fieldNum int) *Builder {
	b := builderPool.Get().(*Builder)
	b.root = NewComposite(fieldNum)
	b.errors = b.errors[:0]
	return b
}

// Release returns the builder to the pool
func (b *Builder) Release() {
	b.root = nil
	b.errors = b.errors[:0]
	builderPool.Put(b)
}

// Leaf attaches a leaf child with the given value.
func (b *Builder) Leaf(fieldNum int, value []byte) *Builder {
	if fieldNum < 1 || fieldNum > MaxSubFieldNumber {
		b.errors = append(b.errors, &FieldError{Field: fieldNum, Err: ErrFieldNotFound})
		return b
	}
	b.root.Set(NewLeaf(fieldNum, value))
	return b
}

// String attaches a leaf child from a string value.
func (b *Builder) String(fieldNum int, value string) *Builder {
	return b.Leaf(fieldNum, []byte(value))
}

// Group attaches a nested composite populated by fn.
func (b *Builder) Group(fieldNum int, fn func(*Builder)) *Builder {
	nested := NewBuilder(fieldNum)
	fn(nested)
	child, err := nested.Build()
	if err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	b.root.Set(child)
	return b
}

func (b *Builder) Build() (*Component, error) {
	if len(b.errors) > 0 {
		err := b.errors[0]
		b.Release()
		return nil, err
	}
	root := b.root
	b.root = nil // Transfer ownership
	b.Release()
	return root, nil
}

func (b *Builder) MustBuild() *Component {
	root, err := b.Build()
	if err != nil {
		panic(err)
	}
	return root
}
