// Package category classifies places into the fixed set of bookmark
// categories and resolves the icon shown for each of them.
//
// A Category carries its icon, so there is a single table to maintain:
//
//	cat := category.NewClassifier().ClassifyName("bakery") // Restaurant
//	icon, ok := cat.Icon()                                 // "ic_restaurant", true
package category

import "sort"

// Category is one of the five bookmark categories.
type Category string

const (
	Gas        Category = "Gas"
	Lodging    Category = "Lodging"
	Other      Category = "Other"
	Restaurant Category = "Restaurant"
	Shopping   Category = "Shopping"
)

// Default is assigned to bookmarks that have no better classification.
const Default = Other

// Icon identifies the drawable shown next to a category.
type Icon string

var icons = map[Category]Icon{
	Gas:        "ic_gas",
	Lodging:    "ic_lodging",
	Other:      "ic_other",
	Restaurant: "ic_restaurant",
	Shopping:   "ic_shopping",
}

// Icon returns the icon for the category. The second value is false for any
// value outside the five known categories.
func (c Category) Icon() (Icon, bool) {
	icon, ok := icons[c]
	return icon, ok
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := icons[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// Parse converts a category name into a Category.
func Parse(name string) (Category, bool) {
	c := Category(name)
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// All returns every known category in name order.
func All() []Category {
	all := make([]Category, 0, len(icons))
	for c := range icons {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}
