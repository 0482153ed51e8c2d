package model

// Categories is the fixed set a listing can belong to. Browsing and the
// per-category counters on the home screen iterate this slice in order.
var Categories = []string{
	"electronics",
	"vehicles",
	"furniture",
	"fashion",
	"books",
	"other",
}

func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
