package vehicle

import (
	"sort"

	"github.com/samber/lo"
)

// Catalog drives the manufacturer, model, and segment choices. Each level is
// filtered by the choice made one level up.
type Catalog struct {
	models []Model
}

// NewCatalog wraps the models returned by the backend.
func NewCatalog(models []Model) *Catalog {
	return &Catalog{models: models}
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.models) }

// Manufacturers returns each manufacturer once, sorted.
func (c *Catalog) Manufacturers() []string {
	names := lo.Uniq(lo.Map(c.models, func(m Model, _ int) string { return m.Manufacturer }))
	sort.Strings(names)
	return names
}

// Models returns the model names offered for manufacturer, in catalog order.
func (c *Catalog) Models(manufacturer string) []string {
	matching := lo.Filter(c.models, func(m Model, _ int) bool { return m.Manufacturer == manufacturer })
	return lo.Uniq(lo.Map(matching, func(m Model, _ int) string { return m.ModelName }))
}

// Segments returns the car segments offered for modelName.
func (c *Catalog) Segments(modelName string) []string {
	matching := lo.Filter(c.models, func(m Model, _ int) bool { return m.ModelName == modelName })
	return lo.Uniq(lo.Map(matching, func(m Model, _ int) string { return m.CarSegment }))
}

// Lookup returns the catalog entry for manufacturer and modelName.
func (c *Catalog) Lookup(manufacturer, modelName string) (Model, bool) {
	return lo.Find(c.models, func(m Model) bool {
		return m.Manufacturer == manufacturer && m.ModelName == modelName
	})
}

// Resolve fills the vehicle's model id from the catalog, and its car segment
// when the catalog offers exactly one for the model. It reports whether the
// model was found.
func (c *Catalog) Resolve(v *Vehicle) bool {
	m, ok := c.Lookup(v.Manufacturer, v.ModelName)
	if !ok {
		v.ModelID = 0
		return false
	}
	v.ModelID = m.ModelID
	if segments := c.Segments(v.ModelName); v.CarSegment == "" && len(segments) == 1 {
		v.CarSegment = segments[0]
	}
	return true
}
