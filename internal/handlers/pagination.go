package handlers

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var errInvalidPagination = errors.New("page and limit must be positive integers, limit at most 100")

// parsePaginationParams turns page/limit into a store skip and limit. Both are
// zero when neither parameter is set, which means the whole list.
func parsePaginationParams(pageStr, limitStr string) (skip, limit int64, err error) {
	pageStr, limitStr = strings.TrimSpace(pageStr), strings.TrimSpace(limitStr)
	if pageStr == "" && limitStr == "" {
		return 0, 0, nil
	}

	page, limit := int64(1), int64(defaultPageLimit)
	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPagination
		}
		page = p
	}
	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 || l > maxPageLimit {
			return 0, 0, errInvalidPagination
		}
		limit = l
	}

	if page-1 > math.MaxInt64/limit {
		return 0, 0, errInvalidPagination
	}
	return (page - 1) * limit, limit, nil
}
