package category

// Classifier maps place-type codes onto bookmark categories. It is immutable
// after construction and safe for concurrent use.
type Classifier struct {
	byType map[PlaceType]Category
}

// NewClassifier builds the fixed place-type table.
func NewClassifier() *Classifier {
	return &Classifier{
		byType: map[PlaceType]Category{
			PlaceTypeBakery:       Restaurant,
			PlaceTypeBar:          Restaurant,
			PlaceTypeCafe:         Restaurant,
			PlaceTypeFood:         Restaurant,
			PlaceTypeRestaurant:   Restaurant,
			PlaceTypeMealDelivery: Restaurant,
			PlaceTypeMealTakeaway: Restaurant,

			PlaceTypeGasStation: Gas,

			PlaceTypeClothingStore:        Shopping,
			PlaceTypeDepartmentStore:      Shopping,
			PlaceTypeFurnitureStore:       Shopping,
			PlaceTypeGroceryOrSupermarket: Shopping,
			PlaceTypeHardwareStore:        Shopping,
			PlaceTypeHomeGoodsStore:       Shopping,
			PlaceTypeJewelryStore:         Shopping,
			PlaceTypeShoeStore:            Shopping,
			PlaceTypeShoppingMall:         Shopping,
			PlaceTypeStore:                Shopping,

			PlaceTypeLodging: Lodging,
			PlaceTypeRoom:    Lodging,
		},
	}
}

// Classify returns the category for a place-type code. Codes without a
// mapping, including codes outside the taxonomy, classify as Other.
func (c *Classifier) Classify(code PlaceType) Category {
	if cat, ok := c.byType[code]; ok {
		return cat
	}
	return Default
}

// ClassifyName classifies a web-service type name.
func (c *Classifier) ClassifyName(name string) Category {
	t, _ := ParsePlaceType(name)
	return c.Classify(t)
}

// Mapped reports whether code has an explicit mapping, as opposed to
// falling back to Other.
func (c *Classifier) Mapped(code PlaceType) bool {
	_, ok := c.byType[code]
	return ok
}

// IconFor returns the icon of a category; false for unknown categories.
func (c *Classifier) IconFor(cat Category) (Icon, bool) {
	return cat.Icon()
}

// Categories returns the fixed category names for presentation.
func (c *Classifier) Categories() []Category {
	return All()
}
