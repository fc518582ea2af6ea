package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListQuery is an already validated page request. SortColumn must come from a whitelist.
type ListQuery struct {
	Search     string
	Offset     int
	Limit      int
	SortColumn string
	Desc       bool
}

func searchScope(column, search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		return db.Where(column+" ILIKE ?", "%"+escapeLike(search)+"%")
	}
}

// pageScope orders by the requested column with id as a tiebreaker so pages stay disjoint.
func pageScope(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.SortColumn != "" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortColumn}, Desc: q.Desc})
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
		if q.Limit > 0 {
			db = db.Limit(q.Limit)
		}
		return db.Offset(q.Offset)
	}
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
