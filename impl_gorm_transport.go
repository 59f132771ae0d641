package gocollection

import (
	"context"
	"fmt"
	"math"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	FieldAlias = string

	// ColumnMapping maps external field names (sort fields and condition
	// attributes) to fully qualified column names. Use it when bare column
	// names could cause an "ambiguous column name" error, or to restrict the
	// fields clients may filter and sort by.
	ColumnMapping = map[FieldAlias]string
)

// GORMTransport serves record set queries straight from a database through
// GORM. It is used when the list lives in the same process as its storage,
// and in tests.
//
// Filter criteria must be Condition or clause.Expression values; top-level
// criteria are joined by AND.
type GORMTransport[T Record] struct {
	db            *gorm.DB
	table         string
	columnMapping ColumnMapping
}

// NewGORMTransport creates a transport reading T from db.
func NewGORMTransport[T Record](db *gorm.DB) *GORMTransport[T] {
	return &GORMTransport[T]{db: db}
}

// WithTable overrides the table name derived from T.
func (t *GORMTransport[T]) WithTable(table string) *GORMTransport[T] {
	if t == nil {
		t = new(GORMTransport[T])
	}

	t.table = table

	return t
}

// WithColumnMapping restricts sort fields and condition attributes to the
// mapping keys and resolves them to the mapped columns.
func (t *GORMTransport[T]) WithColumnMapping(mapping ColumnMapping) *GORMTransport[T] {
	if t == nil {
		t = new(GORMTransport[T])
	}

	t.columnMapping = mapping

	return t
}

// Do - implements Transport. Runs a COUNT query for the total and a paged
// SELECT for the list.
func (t *GORMTransport[T]) Do(ctx context.Context, query Query) (*Response[T], error) {
	filtered, err := t.Apply(t.db.WithContext(ctx), query)
	if err != nil {
		return nil, fmt.Errorf("cannot build query: %w", err)
	}

	paged, err := t.paginate(filtered, query)
	if err != nil {
		return nil, fmt.Errorf("cannot build query: %w", err)
	}

	var total int64
	err = filtered.Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("cannot count records: %w", err)
	}

	list := make([]T, 0, query.MaxSize)
	err = paged.Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("cannot fetch records: %w", err)
	}

	return NewResponse(int(total), list), nil
}

// Apply scopes db to the model and applies the filter criteria of query. The
// returned *gorm.DB is a fresh session and can be reused.
func (t *GORMTransport[T]) Apply(db *gorm.DB, query Query) (*gorm.DB, error) {
	db = db.Model(new(T))
	if t.table != "" {
		db = db.Table(t.table)
	}

	expressions, err := conditionsToGORMExpressions(query.Where, t.resolveColumn)
	if err != nil {
		return nil, err
	}

	if exp := clause.And(expressions...); exp != nil {
		db = db.Clauses(exp)
	}

	return db.Session(&gorm.Session{}), nil
}

func (t *GORMTransport[T]) paginate(db *gorm.DB, query Query) (*gorm.DB, error) {
	if !query.Order.IsEmpty() {
		column, err := t.resolveColumn(query.Order.Field)
		if err != nil {
			return nil, err
		}

		db = db.Order(orderToSQL(column, query.Order.Direction))
	}

	// Limit and offset are applied the same way regardless of the dialect;
	// a zero offset is omitted by GORM.
	return db.Limit(query.MaxSize).Offset(query.Offset), nil
}

// resolveColumn maps a field alias to a column. Without a mapping the alias
// is used as the column name.
func (t *GORMTransport[T]) resolveColumn(alias FieldAlias) (string, error) {
	if len(t.columnMapping) == 0 {
		err := validateFieldName(alias)
		if err != nil {
			return "", err
		}

		return alias, nil
	}

	column := t.columnMapping[alias]
	if column == "" {
		return "", fmt.Errorf("invalid field alias '%s'. closest: '%s'", alias, closestAlias(alias, lo.Keys(t.columnMapping)))
	}

	return column, nil
}

func closestAlias(input FieldAlias, dataSet []FieldAlias) FieldAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein.Distance(dataSetAlias, input)
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}

var _ Transport[Record] = (*GORMTransport[Record])(nil)
