package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func IsSlug(s string) bool {
	return len(s) <= 255 && slugPattern.MatchString(s)
}

func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", BadRequest(field + " is required")
	}
	if utf8.RuneCountInString(value) > max {
		return "", BadRequest(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return value, nil
}

func optionalText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		return "", BadRequest(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return value, nil
}

func requireSlug(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !IsSlug(value) {
		return "", BadRequest("slug must contain lowercase letters, digits and single dashes")
	}
	return value, nil
}

// normalizePagePath turns "/products/" into "/products". The root stays "/".
func normalizePagePath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "/") {
		return "", BadRequest("path must start with /")
	}
	if strings.ContainsAny(value, " \t\n?#") {
		return "", BadRequest("path must not contain whitespace, query or fragment")
	}
	if len(value) > 512 {
		return "", BadRequest("path must be at most 512 characters")
	}
	if value != "/" {
		value = strings.TrimRight(value, "/")
		if value == "" {
			value = "/"
		}
	}
	return value, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func requireOrdering(ids []uuid.UUID) ([]uuid.UUID, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return nil, BadRequest("ids are required")
	}
	if len(unique) != len(ids) {
		return nil, BadRequest("ids must be distinct")
	}
	return unique, nil
}
