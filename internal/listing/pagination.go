package listing

// SiblingPages builds the previous/next page URLs for a result set. It is a
// pure function of the base URL, the canonicalized parameters and the total
// result count, which keeps the links cache-friendly: two requests that
// differ only in parameter spelling produce identical links.
func SiblingPages(baseURL string, params Params, count int) (previous, next *string) {
	totalPages := (count + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if params.Page > 1 {
		previous = pageURL(baseURL, params, params.Page-1)
	}
	if params.Page < totalPages {
		next = pageURL(baseURL, params, params.Page+1)
	}
	return previous, next
}

func pageURL(baseURL string, params Params, page int) *string {
	params.Page = page
	u := baseURL + "?" + params.Values().Encode()
	return &u
}
