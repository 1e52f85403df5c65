package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// queryString returns the trimmed value of key, or nil when it is absent or blank.
func queryString(r *http.Request, key string) *string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return &v
	}
	return nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	v := queryString(r, key)
	if v == nil {
		return nil, nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: key, Message: key + " must be true or false"}}
	}
	return &b, nil
}

// queryPagination reads page and limit. Absent values stay zero so the
// filter's Validate applies the defaults.
func queryPagination(r *http.Request) (page int, limit int, err error) {
	var errs validator.ValidationErrors

	if p := queryString(r, "page"); p != nil {
		if page, err = strconv.Atoi(*p); err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
		}
	}
	if l := queryString(r, "limit"); l != nil {
		if limit, err = strconv.Atoi(*l); err != nil {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
		}
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return page, limit, nil
}
