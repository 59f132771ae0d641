package gocollection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Direction_Valid_And_ToSQL(t *testing.T) {
	tests := []struct {
		name  string
		in    Direction
		valid bool
		isASC bool
		sql   string
	}{
		{"asc", DirectionASC, true, true, "ASC"},
		{"desc", DirectionDESC, true, false, "DESC"},
		{"unknown is not asc", Direction("sideways"), false, false, "ASC"},
		{"upper case is not asc", Direction("ASC"), false, false, "ASC"},
		{"empty is not asc", Direction(""), false, false, "ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Valid(); got != tt.valid {
				t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
			}
			if got := tt.in.IsASC(); got != tt.isASC {
				t.Errorf("%s: IsASC=%v want %v", tt.name, got, tt.isASC)
			}
			if got := tt.in.ToSQL(); got != tt.sql {
				t.Errorf("%s: ToSQL=%v want %v", tt.name, got, tt.sql)
			}
		})
	}
}

func Test_NormalizeDirection(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Direction
	}{
		{"true is desc", true, DirectionDESC},
		{"false is asc", false, DirectionASC},
		{"nil is asc", nil, DirectionASC},
		{"empty string is asc", "", DirectionASC},
		{"empty direction is asc", Direction(""), DirectionASC},
		{"desc string passes through", "desc", DirectionDESC},
		{"direction passes through", DirectionDESC, DirectionDESC},
		{"other string passes through unchanged", "DESC", Direction("DESC")},
		{"other value passes through", 42, Direction("42")},
		{"zero value is asc", 0, DirectionASC},
		{"empty slice is asc", []string(nil), DirectionASC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirection(tt.in))
		})
	}
}

func Test_RecordSet_Sort(t *testing.T) {
	tests := []struct {
		name  string
		order any
		want  Direction
	}{
		{"bool true", true, DirectionDESC},
		{"bool false", false, DirectionASC},
		{"absent", nil, DirectionASC},
		{"string", "desc", DirectionDESC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newRecordingTransport(0)
			rs := New[testRecord]("Account", tr)

			req, err := rs.Sort(testContext(t), "name", tt.order)
			waitRequest(t, req, err)

			require.Equal(t, OrderBy{Field: "name", Direction: tt.want}, rs.Order())
			require.Equal(t, OrderBy{Field: "name", Direction: tt.want}, tr.lastQuery(t).Order)
			require.Equal(t, 1, tr.calls())
		})
	}
}

func Test_RecordSet_ResetOrderToDefault(t *testing.T) {
	tr := newRecordingTransport(0)
	rs := New[testRecord]("Account", tr).WithOrder("createdAt", DirectionDESC)

	req, err := rs.Sort(testContext(t), "name", false)
	waitRequest(t, req, err)
	req, err = rs.Sort(testContext(t), "email", true)
	waitRequest(t, req, err)

	rs.ResetOrderToDefault()
	require.Equal(t, OrderBy{Field: "createdAt", Direction: DirectionDESC}, rs.Order())
	// No fetch on reset.
	require.Equal(t, 2, tr.calls())

	rs.SetOrder("name", DirectionASC, true)
	rs.SetOrder("email", DirectionDESC, false)
	rs.ResetOrderToDefault()
	require.Equal(t, OrderBy{Field: "name", Direction: DirectionASC}, rs.Order())
	require.Equal(t, OrderBy{Field: "name", Direction: DirectionASC}, rs.DefaultOrder())
	require.Equal(t, 2, tr.calls())
}

func Test_RecordSet_SetOrder_NoNormalization(t *testing.T) {
	rs := New[testRecord]("Account", newRecordingTransport(0))

	rs.SetOrder("name", Direction("DESC"), false)

	require.Equal(t, OrderBy{Field: "name", Direction: "DESC"}, rs.Order())
	require.Equal(t, OrderBy{Field: "", Direction: DirectionASC}, rs.DefaultOrder())
}

func Test_validateFieldName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"plain", "created_at", true},
		{"qualified", "t.name", true},
		{"empty", "", false},
		{"injection", "id; DROP TABLE users", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateFieldName(tt.in); (err == nil) != tt.ok {
				t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
			}
		})
	}
}
