package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rookgm/storefront/internal/models"
)

// parsePageQuery reads the listing parameters, malformed numbers are reported as violations
func parsePageQuery(r *http.Request) (models.PageQuery, []violation) {
	values := r.URL.Query()
	q := models.PageQuery{
		SortBy:  values.Get("sortBy"),
		SortDir: strings.ToLower(values.Get("sortDir")),
		Search:  values.Get("search"),
	}

	var violations []violation
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"pageNo", &q.PageNo},
		{"pageSize", &q.PageSize},
	} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			violations = append(violations, violation{Field: p.name, Message: p.name + " must be a non-negative number"})
			continue
		}
		*p.dst = &n
	}

	if q.SortDir != "" && q.SortDir != models.SortAsc && q.SortDir != models.SortDesc {
		violations = append(violations, violation{Field: "sortDir", Message: "sortDir must be asc or desc"})
	}

	return q, violations
}

func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil
}
