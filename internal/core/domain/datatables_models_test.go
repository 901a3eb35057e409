// file: internal/core/domain/datatables_models_test.go
package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_MarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		row  Row
		want string
	}{
		{"plain cells", Row{Cells: []any{1, "Ann"}}, `[1,"Ann"]`},
		{"no cells", Row{}, `[]`},
		{"row id", Row{Cells: []any{1, "Ann"}, RowID: 1, HasRowID: true}, `{"0":1,"1":"Ann","DT_RowId":1}`},
		{"null row id", Row{Cells: []any{"Ann"}, HasRowID: true}, `{"0":"Ann","DT_RowId":null}`},
		{"row data and class", Row{Cells: []any{"Ann"}, RowData: map[string]any{"id": 7}, RowClass: "odd"}, `{"0":"Ann","DT_RowData":{"id":7},"DT_RowClass":"odd"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.row)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestResponse_MarshalJSON(t *testing.T) {
	resp := Response{Draw: 2, RecordsTotal: 5, RecordsFiltered: 1, Data: []Row{{Cells: []any{"x"}}}}
	got, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"draw":2,"recordsTotal":5,"recordsFiltered":1,"data":[["x"]]}`, string(got))
}

func TestWhereSpec_IsZero(t *testing.T) {
	assert.True(t, WhereSpec{}.IsZero())
	assert.False(t, WhereSpec{Raw: "score > 1"}.IsZero())
	assert.False(t, WhereSpec{Conditions: []WhereCondition{{Key: "deleted_at"}}}.IsZero())
}
