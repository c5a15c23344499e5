package models

// CategoryKind determines which catalog a category belongs to: the default
// expense catalog, the admin-only expense catalog, or the income catalog.
type CategoryKind string

const (
	CategoryKindDefault CategoryKind = "default"
	CategoryKindAdmin   CategoryKind = "admin"
	CategoryKindIncome  CategoryKind = "income"
)

// Category is a catalog row offered on the transaction creation form.
type Category struct {
	Base
	Name  string       `gorm:"uniqueIndex;not null" json:"name"`
	Kind  CategoryKind `gorm:"not null;index" json:"kind"`
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
}

// Sub-category menus. Conveyance expenses and the admin asset categories
// carry an extra classification level.
var (
	ConveyanceSubCategories = []string{"Oil", "Bus", "Rikshaw/Van"}
	AdminAssetSubCategories = []string{"Bonna", "Ali Ahsan", "Sumna", "Kalamma/Ma"}
	adminAssetCategories    = map[string]bool{"Family": true, "Marjan": true, "Admin Own": true}
)

// SubCategoriesFor returns the sub-category menu for a category name, or nil
// when the category has no sub-classification.
func SubCategoriesFor(category string) []string {
	switch {
	case category == "Conveyance":
		return ConveyanceSubCategories
	case adminAssetCategories[category]:
		return AdminAssetSubCategories
	}
	return nil
}
