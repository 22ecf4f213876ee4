package settings

// PropertyType is the kind of control a host would render.
type PropertyType int

const (
	PropertyTypeGroup = PropertyType(iota)
	PropertyTypeInt
	PropertyTypeFloat
	PropertyTypeText
	PropertyTypeList
	PropertyTypeBool
)

type ListItem struct {
	Name  string
	Value any
}

// Property describes one setting. Groups carry their members in Children.
type Property struct {
	Key         string
	Name        string
	Description string
	Type        PropertyType
	Min         float64
	Max         float64
	Step        float64
	Items       []ListItem
	Enabled     bool
	Visible     bool
	Children    []*Property

	// Modified is called after the property value changed; returning
	// true asks the host to refresh the whole property view.
	Modified func(props *Properties, s *Settings) bool
}

func (p *Property) add(child *Property) *Property {
	p.Children = append(p.Children, child)
	return child
}

func newProperty(key, name string, t PropertyType) *Property {
	return &Property{
		Key:     key,
		Name:    name,
		Type:    t,
		Enabled: true,
		Visible: true,
	}
}

func (p *Property) AddGroup(key, name string) *Property {
	return p.add(newProperty(key, name, PropertyTypeGroup))
}

func (p *Property) AddInt(key, name string, min, max, step int) *Property {
	child := newProperty(key, name, PropertyTypeInt)
	child.Min, child.Max, child.Step = float64(min), float64(max), float64(step)
	return p.add(child)
}

func (p *Property) AddFloat(key, name string, min, max, step float64) *Property {
	child := newProperty(key, name, PropertyTypeFloat)
	child.Min, child.Max, child.Step = min, max, step
	return p.add(child)
}

func (p *Property) AddText(key, name string) *Property {
	return p.add(newProperty(key, name, PropertyTypeText))
}

func (p *Property) AddBool(key, name string) *Property {
	return p.add(newProperty(key, name, PropertyTypeBool))
}

func (p *Property) AddList(key, name string, items ...ListItem) *Property {
	child := newProperty(key, name, PropertyTypeList)
	child.Items = items
	return p.add(child)
}

// Properties is the ordered property tree of one encoder.
type Properties struct {
	Root Property
}

func NewProperties() *Properties {
	return &Properties{Root: *newProperty("", "", PropertyTypeGroup)}
}

func (p *Properties) AddGroup(key, name string) *Property {
	return p.Root.AddGroup(key, name)
}

// Get finds a property by key anywhere in the tree.
func (p *Properties) Get(key string) *Property {
	return find(&p.Root, key)
}

func find(p *Property, key string) *Property {
	for _, child := range p.Children {
		if child.Key == key {
			return child
		}
		if found := find(child, key); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every property depth-first in declaration order.
func (p *Properties) Walk(fn func(prop *Property, depth int)) {
	walk(&p.Root, 0, fn)
}

func walk(p *Property, depth int, fn func(*Property, int)) {
	for _, child := range p.Children {
		fn(child, depth)
		walk(child, depth+1, fn)
	}
}
