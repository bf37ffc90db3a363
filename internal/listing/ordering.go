package listing

import "sort"

// Ordering selects the caller-facing sort key for listing results.
type Ordering string

const (
	OrderLastUpdated    Ordering = "last-updated"
	OrderMostDownloaded Ordering = "most-downloaded"
	OrderNewest         Ordering = "newest"
	OrderTopRated       Ordering = "top-rated"
)

func validOrdering(o Ordering) bool {
	switch o {
	case OrderLastUpdated, OrderMostDownloaded, OrderNewest, OrderTopRated:
		return true
	}
	return false
}

// sortPackages orders results pinned-first, deprecated-last, then by the
// selected key descending, then last-updated descending with a stable
// id-descending tiebreak.
func sortPackages(ordering Ordering, pkgs []Package) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		a, b := pkgs[i], pkgs[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if a.IsDeprecated != b.IsDeprecated {
			return b.IsDeprecated
		}
		switch ordering {
		case OrderMostDownloaded:
			if a.Downloads != b.Downloads {
				return a.Downloads > b.Downloads
			}
		case OrderNewest:
			if !a.DateCreated.Equal(b.DateCreated) {
				return a.DateCreated.After(b.DateCreated)
			}
		case OrderTopRated:
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
		}
		if !a.DateUpdated.Equal(b.DateUpdated) {
			return a.DateUpdated.After(b.DateUpdated)
		}
		return a.ID > b.ID
	})
}
