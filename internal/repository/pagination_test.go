package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageableNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Pageable
		want Pageable
	}{
		{
			name: "zero value gets defaults",
			in:   Pageable{},
			want: Pageable{Page: 0, Size: defaultPageSize},
		},
		{
			name: "negative page clamped to zero",
			in:   Pageable{Page: -3, Size: 10},
			want: Pageable{Page: 0, Size: 10},
		},
		{
			name: "oversized page size capped",
			in:   Pageable{Page: 2, Size: 500},
			want: Pageable{Page: 2, Size: maxPageSize},
		},
		{
			name: "allowed sort column kept case-insensitively",
			in:   Pageable{Size: 10, Sort: "Title"},
			want: Pageable{Size: 10, Sort: "title"},
		},
		{
			name: "unknown sort column dropped",
			in:   Pageable{Size: 10, Sort: "password"},
			want: Pageable{Size: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalized("id", "title", "created_at")
			got.Desc = tt.in.Desc
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageableOrder(t *testing.T) {
	assert.Equal(t, "id ASC", Pageable{}.order("id"))
	assert.Equal(t, "title ASC", Pageable{Sort: "title"}.order("id"))
	assert.Equal(t, "title DESC", Pageable{Sort: "title", Desc: true}.order("id"))
}

func TestPageableOffset(t *testing.T) {
	assert.Equal(t, 0, Pageable{Page: 0, Size: 20}.offset())
	assert.Equal(t, 40, Pageable{Page: 2, Size: 20}.offset())
}
