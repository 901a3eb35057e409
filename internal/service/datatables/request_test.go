// file: internal/service/datatables/request_test.go
package datatables

import (
	"GridAegis/internal/core/domain"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWireRequest(t *testing.T) {
	values, err := url.ParseQuery(
		"draw=4&start=20&length=10&search[value]=ann" +
			"&columns[0][data]=0&columns[0][orderable]=true&columns[0][searchable]=false" +
			"&columns[1][data]=1&columns[1][orderable]=false&columns[1][searchable]=true&columns[1][search][value]=b" +
			"&order[0][column]=1&order[0][dir]=desc" +
			"&order[1][column]=0&order[1][dir]=asc",
	)
	require.NoError(t, err)

	req := ParseWireRequest(values)
	assert.Equal(t, domain.WireRequest{
		Draw:   4,
		Start:  20,
		Length: 10,
		Search: "ann",
		Columns: []domain.WireColumn{
			{Data: 0, Orderable: true, Searchable: false},
			{Data: 1, Orderable: false, Searchable: true, Search: "b"},
		},
		Order: []domain.WireOrder{
			{Column: 1, Dir: "desc"},
			{Column: 0, Dir: "asc"},
		},
	}, req)
}

func TestParseWireRequest_Lenient(t *testing.T) {
	values := url.Values{
		"draw":                   {"abc"},
		"length":                 {" 5 "},
		"columns[3][data]":       {"zero"},
		"columns[7][orderable]":  {"TRUE"},
		"columns[7][searchable]": {"1"},
		"order[2][dir]":          {"asc"},
		"unrelated":              {"x"},
	}

	req := ParseWireRequest(values)
	assert.Equal(t, 0, req.Draw)
	assert.Equal(t, 5, req.Length)
	require.Len(t, req.Columns, 2, "列按索引升序压紧")
	assert.Equal(t, -1, req.Columns[0].Data, "无法解析的 data 记为 -1")
	assert.False(t, req.Columns[1].Orderable, "只有字面量 \"true\" 才为真")
	assert.False(t, req.Columns[1].Searchable)
	require.Len(t, req.Order, 1)
	assert.Equal(t, -1, req.Order[0].Column)
}

func TestParseWireRequest_Empty(t *testing.T) {
	req := ParseWireRequest(url.Values{})
	assert.Empty(t, req.Columns)
	assert.Empty(t, req.Order)
	assert.Zero(t, req.Draw)
}
