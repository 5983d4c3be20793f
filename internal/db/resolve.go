package db

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var idPrefixRegex = regexp.MustCompile(`^[0-9a-fA-F-]{4,36}$`)

// resolve finds the single record in scope that ref names. It tries, in order, a full
// ID, an ID prefix of at least four characters, an exact case-insensitive name and a
// name substring. Each step that matches several records fails with ErrAmbiguousRef.
func resolve[T any](scope *gorm.DB, ref string, missing error) (*T, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, missing
	}

	if id, err := uuid.Parse(ref); err == nil {
		var out T
		if err := scope.Session(&gorm.Session{}).Where("id = ?", id).First(&out).Error; err != nil {
			return nil, notFound(err, missing)
		}
		return &out, nil
	}

	steps := []func(*gorm.DB) *gorm.DB{
		func(q *gorm.DB) *gorm.DB {
			if !idPrefixRegex.MatchString(ref) {
				return nil
			}
			return q.Where("id LIKE ?", strings.ToLower(ref)+"%")
		},
		func(q *gorm.DB) *gorm.DB {
			return q.Where("LOWER(name) = ?", strings.ToLower(ref))
		},
		func(q *gorm.DB) *gorm.DB {
			return q.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+likeEscape(strings.ToLower(ref))+"%")
		},
	}

	for _, step := range steps {
		q := step(scope.Session(&gorm.Session{}))
		if q == nil {
			continue
		}
		var found []T
		if err := q.Order("name ASC").Limit(6).Find(&found).Error; err != nil {
			return nil, err
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return &found[0], nil
		default:
			return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousRef, ref, describeMatches(found))
		}
	}

	return nil, fmt.Errorf("%w: %q", missing, ref)
}

type named interface {
	DisplayName() string
}

func describeMatches[T any](found []T) string {
	names := make([]string, 0, len(found))
	for i := range found {
		if n, ok := any(&found[i]).(named); ok {
			names = append(names, fmt.Sprintf("%q", n.DisplayName()))
		}
	}
	if len(found) > 5 {
		names = append(names[:min(len(names), 5)], "...")
	}
	return strings.Join(names, ", ")
}

func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
