// services/console.go
package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ConsoleBinding declares, per entity, which columns the admin console
// may search and filter on. Search is restricted to text identity
// columns and filters to low-cardinality columns; anything else is
// rejected here rather than in each handler.
type ConsoleBinding struct {
	// SearchColumns are matched case-insensitively against the ?q= param.
	SearchColumns []string
	// FilterColumns maps a query param name to the column it filters.
	FilterColumns map[string]string
	// DateColumn, when set, enables ?year=&month=&day= drill-down on it.
	DateColumn string
}

// Apply builds the list query from the request: search, filters, date
// drill-down and a capped limit. Unknown filter params are ignored —
// only declared columns ever reach the SQL.
func (b ConsoleBinding) Apply(db *gorm.DB, c *fiber.Ctx) (*gorm.DB, error) {
	if q := strings.TrimSpace(c.Query("q")); q != "" && len(b.SearchColumns) > 0 {
		term := "%" + strings.ToLower(q) + "%"
		var clauses []string
		var args []interface{}
		for _, col := range b.SearchColumns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
			args = append(args, term)
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}

	for param, col := range b.FilterColumns {
		if v := c.Query(param); v != "" {
			db = db.Where(fmt.Sprintf("%s = ?", col), v)
		}
	}

	if b.DateColumn != "" {
		from, to, err := dateRange(c)
		if err != nil {
			return nil, err
		}
		if !from.IsZero() {
			db = db.Where(fmt.Sprintf("%s >= ? AND %s < ?", b.DateColumn, b.DateColumn), from, to)
		}
	}

	limit := 50
	if s := c.Query("limit"); s != "" {
		l, err := strconv.Atoi(s)
		if err != nil || l <= 0 || l > 100 {
			return nil, fmt.Errorf("invalid limit parameter")
		}
		limit = l
	}

	return db.Limit(limit).Order(b.orderColumn() + " DESC"), nil
}

func (b ConsoleBinding) orderColumn() string {
	if b.DateColumn != "" {
		return b.DateColumn
	}
	return "created_at"
}

// dateRange turns ?year=&month=&day= into a [from, to) window so the
// drill-down works identically on Postgres and on the SQLite test DB.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	yearStr := c.Query("year")
	if yearStr == "" {
		if c.Query("month") != "" || c.Query("day") != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("month/day filters require year")
		}
		return time.Time{}, time.Time{}, nil
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2200 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid year parameter")
	}

	month := 0
	if s := c.Query("month"); s != "" {
		month, err = strconv.Atoi(s)
		if err != nil || month < 1 || month > 12 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid month parameter")
		}
	}

	day := 0
	if s := c.Query("day"); s != "" {
		if month == 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("day filter requires month")
		}
		day, err = strconv.Atoi(s)
		if err != nil || day < 1 || day > 31 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid day parameter")
		}
	}

	switch {
	case day > 0:
		from := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 0, 1), nil
	case month > 0:
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), nil
	default:
		from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), nil
	}
}
