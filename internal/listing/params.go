package listing

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// Params holds the validated listing query parameters. List values are kept
// sorted so that equivalent queries canonicalize to the same URL.
type Params struct {
	Deprecated         bool
	NSFW               bool
	IncludedCategories []int64
	ExcludedCategories []int64
	Ordering           Ordering
	Page               int
	Query              string
	Section            *uuid.UUID
}

// ParseParams validates raw query parameters. Any error is a client error
// and must be surfaced before the data store is touched.
func ParseParams(query url.Values) (Params, error) {
	params := Params{
		Ordering: OrderLastUpdated,
		Page:     1,
	}

	var err error
	if params.Deprecated, err = parseBool(query, "deprecated"); err != nil {
		return params, err
	}
	if params.NSFW, err = parseBool(query, "nsfw"); err != nil {
		return params, err
	}
	if params.IncludedCategories, err = parseIntList(query, "included_categories"); err != nil {
		return params, err
	}
	if params.ExcludedCategories, err = parseIntList(query, "excluded_categories"); err != nil {
		return params, err
	}

	if raw := query.Get("ordering"); raw != "" {
		if !validOrdering(Ordering(raw)) {
			return params, fmt.Errorf("unknown ordering %q", raw)
		}
		params.Ordering = Ordering(raw)
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid page %q", raw)
		}
		params.Page = page
	}

	params.Query = query.Get("q")

	if raw := query.Get("section"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, fmt.Errorf("invalid section %q", raw)
		}
		params.Section = &id
	}

	return params, nil
}

// Values renders the canonical query string form of the parameters.
// Defaults are included so that sibling page links are stable regardless of
// which parameters the original request spelled out.
func (p Params) Values() url.Values {
	values := url.Values{}
	values.Set("deprecated", strconv.FormatBool(p.Deprecated))
	values.Set("nsfw", strconv.FormatBool(p.NSFW))
	for _, id := range p.IncludedCategories {
		values.Add("included_categories", strconv.FormatInt(id, 10))
	}
	for _, id := range p.ExcludedCategories {
		values.Add("excluded_categories", strconv.FormatInt(id, 10))
	}
	values.Set("ordering", string(p.Ordering))
	values.Set("page", strconv.Itoa(p.Page))
	if p.Query != "" {
		values.Set("q", p.Query)
	}
	if p.Section != nil {
		values.Set("section", p.Section.String())
	}
	return values
}

func parseBool(query url.Values, key string) (bool, error) {
	raw := query.Get(key)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}

func parseIntList(query url.Values, key string) ([]int64, error) {
	raw := query[key]
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(raw))
	for _, item := range raw {
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", key, item)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
