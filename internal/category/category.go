package category

import "slices"

// Category is an emotional expression tag. It namespaces stored objects and
// drives filtered retrieval.
type Category string

const (
	Happy       Category = "happy"
	Sad         Category = "sad"
	Laugh       Category = "laugh"
	Cry         Category = "cry"
	Questioning Category = "questioning"
)

// registry is fixed at build time.
var registry = []Category{Happy, Sad, Laugh, Cry, Questioning}

// All returns the registered categories in declaration order.
func All() []Category {
	return slices.Clone(registry)
}

// IsValid reports whether value is exactly one of the registered categories.
func IsValid(value string) bool {
	return slices.Contains(registry, Category(value))
}

func (c Category) String() string {
	return string(c)
}
