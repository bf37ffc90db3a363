package listing

import "strings"

// The filter steps below are applied in a fixed order by ListPackages. Each
// step takes the inputs it needs plus the candidate slice and returns the
// surviving rows without mutating its input.

func filterNamespace(namespace string, pkgs []Package) []Package {
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if strings.EqualFold(p.Namespace, namespace) {
			out = append(out, p)
		}
	}
	return out
}

// filterByReviewStatus keeps approved packages, plus unreviewed ones for
// communities that do not require listing approval.
func filterByReviewStatus(requireApproval bool, pkgs []Package) []Package {
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if p.ReviewStatus == ReviewApproved {
			out = append(out, p)
		} else if !requireApproval && p.ReviewStatus == ReviewUnreviewed {
			out = append(out, p)
		}
	}
	return out
}

func filterDeprecated(showDeprecated bool, pkgs []Package) []Package {
	if showDeprecated {
		return pkgs
	}
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if !p.IsDeprecated {
			out = append(out, p)
		}
	}
	return out
}

func filterNSFW(showNSFW bool, pkgs []Package) []Package {
	if showNSFW {
		return pkgs
	}
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if !p.IsNSFW {
			out = append(out, p)
		}
	}
	return out
}

// filterInCategories keeps only packages belonging to at least one of the
// given categories. Multiple categories are OR-joined.
func filterInCategories(categoryIDs []int64, pkgs []Package) []Package {
	if len(categoryIDs) == 0 {
		return pkgs
	}
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if inAnyCategory(p, categoryIDs) {
			out = append(out, p)
		}
	}
	return out
}

// filterNotInCategories rejects packages belonging to any of the given
// categories. Multiple categories are OR-joined.
func filterNotInCategories(categoryIDs []int64, pkgs []Package) []Package {
	if len(categoryIDs) == 0 {
		return pkgs
	}
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if !inAnyCategory(p, categoryIDs) {
			out = append(out, p)
		}
	}
	return out
}

// filterBySection expands a section preset into category requirements.
// A nil section means no restriction.
func filterBySection(section *Section, pkgs []Package) []Package {
	if section == nil {
		return pkgs
	}
	pkgs = filterInCategories(section.RequireCategories, pkgs)
	return filterNotInCategories(section.ExcludeCategories, pkgs)
}

// filterByQuery applies the free text search: the query is split on
// whitespace and every token must match at least one of name, owner or
// description, case-insensitively.
func filterByQuery(query string, pkgs []Package) []Package {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return pkgs
	}
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if matchesAllTokens(p, tokens) {
			out = append(out, p)
		}
	}
	return out
}

func matchesAllTokens(p Package, tokens []string) bool {
	for _, token := range tokens {
		token = strings.ToLower(token)
		if !containsFold(p.Name, token) &&
			!containsFold(p.Owner, token) &&
			!containsFold(p.Description, token) {
			return false
		}
	}
	return true
}

func containsFold(s, lowered string) bool {
	return strings.Contains(strings.ToLower(s), lowered)
}

func inAnyCategory(p Package, categoryIDs []int64) bool {
	for _, want := range categoryIDs {
		for _, have := range p.CategoryIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}
