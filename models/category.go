package models

// Categories is the closed set of product categories. Category values are
// validated against this list at the API boundary; the database stores the
// plain string.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Books",
	"Sports & Outdoors",
	"Beauty & Health",
	"Toys & Games",
	"Automotive",
	"Food & Beverages",
	"Other",
}

// IsValidCategory reports whether name is one of the recognized categories.
func IsValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
