package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		page      int
		limit     int
		wantPages int
	}{
		{"exact multiple", 20, 1, 10, 2},
		{"partial last page", 15, 2, 10, 2},
		{"empty result", 0, 1, 10, 0},
		{"single item", 1, 1, 10, 1},
		{"limit one", 7, 3, 1, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.total, tc.page, tc.limit)
			assert.Equal(t, tc.wantPages, p.TotalPages)
			assert.Equal(t, tc.page, p.CurrentPage)
			assert.Equal(t, tc.total, p.TotalCount)
			assert.Equal(t, tc.limit, p.Limit)
		})
	}
}
