package gocollection

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// ConditionType defines how a Condition compares its attribute.
type ConditionType string

const (
	ConditionEquals              ConditionType = "equals"
	ConditionNotEquals           ConditionType = "notEquals"
	ConditionGreaterThan         ConditionType = "greaterThan"
	ConditionLessThan            ConditionType = "lessThan"
	ConditionGreaterThanOrEquals ConditionType = "greaterThanOrEquals"
	ConditionLessThanOrEquals    ConditionType = "lessThanOrEquals"
	ConditionIn                  ConditionType = "in"
	ConditionNotIn               ConditionType = "notIn"
	ConditionLike                ConditionType = "like"
	ConditionIsNull              ConditionType = "isNull"
	ConditionIsNotNull           ConditionType = "isNotNull"

	// ConditionAnd and ConditionOr group the nested conditions held in Value.
	ConditionAnd ConditionType = "and"
	ConditionOr  ConditionType = "or"
)

var _conditionOperators = map[ConditionType]string{
	ConditionEquals:              "=",
	ConditionNotEquals:           "<>",
	ConditionGreaterThan:         ">",
	ConditionLessThan:            "<",
	ConditionGreaterThanOrEquals: ">=",
	ConditionLessThanOrEquals:    "<=",
	ConditionIn:                  "IN",
	ConditionNotIn:               "NOT IN",
	ConditionLike:                "LIKE",
	ConditionIsNull:              "IS NULL",
	ConditionIsNotNull:           "IS NOT NULL",
}

// Condition is a structured filter criterion of the form
//
//	{"type": "equals", "attribute": "status", "value": "active"}
//
// Groups hold nested conditions in Value:
//
//	{"type": "or", "value": [{...}, {...}]}
//
// The record set passes conditions through untouched; only transports that
// understand them, such as GORMTransport, interpret them.
type Condition struct {
	Type      ConditionType `json:"type"`
	Attribute string        `json:"attribute,omitempty"`
	Value     any           `json:"value,omitempty"`
}

// Equals is shorthand for an equals condition.
func Equals(attribute string, value any) Condition {
	return Condition{Type: ConditionEquals, Attribute: attribute, Value: value}
}

// And groups conditions joined by AND.
func And(conditions ...Condition) Condition {
	return Condition{Type: ConditionAnd, Value: conditions}
}

// Or groups conditions joined by OR.
func Or(conditions ...Condition) Condition {
	return Condition{Type: ConditionOr, Value: conditions}
}

// columnResolver maps an attribute to a column name.
type columnResolver func(attribute string) (string, error)

// toGORMExpression converts the condition into a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	Condition{Type: "greaterThan", Attribute: "id", Value: 5}
//
// Result:
//
//	clause.Expr{SQL: "id > ?", Vars: [5]}
func (c Condition) toGORMExpression(resolve columnResolver) (clause.Expression, error) {
	switch c.Type {
	case ConditionAnd, ConditionOr:
		return c.groupToGORMExpression(resolve)
	}

	operator, ok := _conditionOperators[c.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported condition type '%s'", c.Type)
	}

	column, err := resolve(c.Attribute)
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case ConditionIsNull, ConditionIsNotNull:
		return clause.Expr{SQL: fmt.Sprintf("%s %s", column, operator)}, nil
	case ConditionIn, ConditionNotIn:
		return clause.Expr{
			SQL:  fmt.Sprintf("%s %s ?", column, operator),
			Vars: []any{c.Value},
		}, nil
	default:
		return clause.Expr{
			SQL:  fmt.Sprintf("%s %s ?", column, operator),
			Vars: []any{parseAnyValue(c.Value)},
		}, nil
	}
}

func (c Condition) groupToGORMExpression(resolve columnResolver) (clause.Expression, error) {
	nested, err := nestedConditions(c.Value)
	if err != nil {
		return nil, err
	}

	expressions, err := conditionsToGORMExpressions(nested, resolve)
	if err != nil {
		return nil, err
	}

	if len(expressions) == 0 {
		return nil, nil
	}

	return lo.Ternary(c.Type == ConditionAnd, clause.And(expressions...), clause.Or(expressions...)), nil
}

func nestedConditions(value any) ([]any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []Condition:
		return lo.ToAnySlice(v), nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("condition group value must be a list, got %T", value)
	}
}

// conditionsToGORMExpressions converts filter criteria understood by SQL
// transports: Condition values and raw clause.Expression values. Empty groups
// are skipped.
func conditionsToGORMExpressions(criteria []any, resolve columnResolver) ([]clause.Expression, error) {
	ret := make([]clause.Expression, 0, len(criteria))
	for i, criterion := range criteria {
		var (
			expr clause.Expression
			err  error
		)

		switch v := criterion.(type) {
		case Condition:
			expr, err = v.toGORMExpression(resolve)
		case *Condition:
			expr, err = v.toGORMExpression(resolve)
		case clause.Expression:
			expr = v
		default:
			err = fmt.Errorf("unsupported filter criterion %T at position %d", criterion, i)
		}

		if err != nil {
			return nil, err
		}
		if expr != nil {
			ret = append(ret, expr)
		}
	}

	return ret, nil
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}
