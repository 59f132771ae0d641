package gocollection

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"
)

// Direction defines the sort direction requested from the server.
type Direction string

const (
	DirectionASC  Direction = "asc"
	DirectionDESC Direction = "desc"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// IsASC reports whether the direction is exactly DirectionASC.
func (o Direction) IsASC() bool {
	return o == DirectionASC
}

// ToSQL returns the SQL keyword for the direction.
func (o Direction) ToSQL() string {
	return lo.Ternary(o == DirectionDESC, "DESC", "ASC")
}

// NormalizeDirection converts loosely typed direction input into a Direction:
//
//   - true → DirectionDESC;
//   - false → DirectionASC;
//   - nil and zero values → DirectionASC;
//   - anything else is passed through unchanged, non-strings in their
//     fmt.Sprint form.
func NormalizeDirection(order any) Direction {
	switch v := order.(type) {
	case bool:
		return lo.Ternary(v, DirectionDESC, DirectionASC)
	case Direction:
		return lo.Ternary(v != "", v, DirectionASC)
	case string:
		return lo.Ternary(v != "", Direction(v), DirectionASC)
	case nil:
		return DirectionASC
	default:
		if reflect.ValueOf(v).IsZero() {
			return DirectionASC
		}

		return Direction(fmt.Sprint(v))
	}
}

// OrderBy is a sort field paired with its direction.
type OrderBy struct {
	Field     string
	Direction Direction
}

// IsEmpty reports whether no sort field is set.
func (o OrderBy) IsEmpty() bool {
	return o.Field == ""
}

// orderState holds the current and default sort state of a record set.
type orderState struct {
	current  OrderBy
	fallback OrderBy
}

func newOrderState(orderBy string, order Direction) orderState {
	o := OrderBy{Field: orderBy, Direction: order}

	return orderState{current: o, fallback: o}
}

// set stores the sort state as-is. When setDefault is true the default is
// overwritten as well.
func (s *orderState) set(orderBy string, order Direction, setDefault bool) {
	s.current = OrderBy{Field: orderBy, Direction: order}
	if setDefault {
		s.fallback = s.current
	}
}

func (s *orderState) reset() {
	s.current = s.fallback
}

var _availableFieldNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

// validateFieldName guards against SQL injection by restricting allowed
// characters in field and column names.
func validateFieldName(name string) error {
	if name == "" {
		return fmt.Errorf("empty field name")
	}

	if !lo.Every(_availableFieldNameSymbols, []rune(name)) {
		return fmt.Errorf("field name contains forbidden symbols '%s'", name)
	}

	return nil
}

// orderToSQL renders "<column> <ASC|DESC>".
//
// Example: for ("t.name", DirectionDESC) returns "t.name DESC".
func orderToSQL(column string, direction Direction) string {
	return strings.Join([]string{column, direction.ToSQL()}, " ")
}
