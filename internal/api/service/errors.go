package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrReviewExists  = errors.New("review for this title by this author already exists")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")

	ErrInvalidCode = errors.New("invalid confirmation code")
	ErrForbidden   = errors.New("you don't have permission to perform this action")
)

// FieldErrors carries validation failures keyed by the offending field so
// handlers can surface them without parsing message strings.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e[k], "; ")))
	}
	return strings.Join(parts, ", ")
}

// Add appends a message for the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}
