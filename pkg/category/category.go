package category

import "errors"

// DefaultUuid is the sentinel category accepted wherever a category uuid is
// taken. It maps to a NULL category on schedule metadata and exists for
// every user without a backing row.
const DefaultUuid = "default"

type Category struct {
	Id     int
	Uuid   string
	Name   string
	Color  string
	UserId int
}

var ErrCategoryNotFound = errors.New("category not found")
