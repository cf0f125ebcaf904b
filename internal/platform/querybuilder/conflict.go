package querybuilder

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ConflictClause renders a Postgres ON CONFLICT suffix.
type ConflictClause struct {
	target    []string
	doNothing bool
	sets      []string
	where     string
}

func OnConflict(target ...string) *ConflictClause {
	return &ConflictClause{target: append([]string(nil), target...)}
}

func (c *ConflictClause) DoNothing() *ConflictClause {
	c.doNothing = true
	return c
}

// DoUpdateExcluded sets every column to its EXCLUDED value.
func (c *ConflictClause) DoUpdateExcluded(columns ...string) *ConflictClause {
	for _, col := range columns {
		c.sets = append(c.sets, col+" = EXCLUDED."+col)
	}
	return c
}

// DoUpdateExpr sets column to a raw SQL expression without parameters.
func (c *ConflictClause) DoUpdateExpr(column, expr string) *ConflictClause {
	c.sets = append(c.sets, column+" = "+expr)
	return c
}

// Where guards the update; rows failing the predicate are left untouched.
func (c *ConflictClause) Where(expr string) *ConflictClause {
	c.where = strings.TrimSpace(expr)
	return c
}

func (c *ConflictClause) toSQL() (string, error) {
	if len(c.target) == 0 {
		return "", errors.New("conflict target is required")
	}

	var b strings.Builder
	b.WriteString("ON CONFLICT (")
	b.WriteString(strings.Join(c.target, ", "))
	b.WriteString(") ")

	if c.doNothing {
		b.WriteString("DO NOTHING")
		return b.String(), nil
	}
	if len(c.sets) == 0 {
		return "", errors.New("conflict update requires at least one column")
	}

	b.WriteString("DO UPDATE SET ")
	b.WriteString(strings.Join(c.sets, ", "))
	if c.where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(c.where)
	}
	return b.String(), nil
}
