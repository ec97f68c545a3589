package phfwd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, rules ...Rule) *PhoneForward {
	t.Helper()
	pf := New()
	for _, r := range rules {
		require.NoError(t, pf.Add(r.Prefix, r.Target))
	}
	return pf
}

func TestReverse(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		num   string
		want  []string
	}{
		{
			name: "empty trie",
			num:  "#",
			want: []string{"#"},
		},
		{
			name:  "peel target",
			rules: []Rule{{Prefix: "13", Target: "5"}},
			num:   "513",
			want:  []string{"1313", "513"},
		},
		{
			name: "symbol order",
			rules: []Rule{
				{Prefix: "*", Target: "1"},
				{Prefix: "#", Target: "1"},
				{Prefix: "9", Target: "1"},
				{Prefix: "99", Target: "1"},
			},
			num:  "12",
			want: []string{"12", "92", "992", "*2", "#2"},
		},
		{
			name: "shorter first",
			rules: []Rule{
				{Prefix: "1", Target: "23"},
				{Prefix: "12", Target: "2"},
			},
			num:  "23",
			want: []string{"1", "123", "23"},
		},
		{
			name: "duplicates collapse",
			rules: []Rule{
				{Prefix: "1", Target: "5"},
				{Prefix: "12", Target: "52"},
			},
			num:  "523",
			want: []string{"123", "523"},
		},
		{
			name:  "target longer than number",
			rules: []Rule{{Prefix: "1", Target: "555"}},
			num:   "55",
			want:  []string{"55"},
		},
		{
			name:  "target equals number",
			rules: []Rule{{Prefix: "1*", Target: "55"}},
			num:   "55",
			want:  []string{"1*", "55"},
		},
		{
			name:  "unrelated target ignored",
			rules: []Rule{{Prefix: "3", Target: "1"}, {Prefix: "1", Target: "9"}},
			num:   "13",
			want:  []string{"13", "33"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := build(t, tt.rules...)
			got := pf.Reverse(tt.num)
			require.True(t, got.Valid())
			assert.Equal(t, tt.want, got.Slice())
		})
	}
}

func TestGetReverse(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		num   string
		want  []string
	}{
		{
			name:  "peel target",
			rules: []Rule{{Prefix: "13", Target: "5"}},
			num:   "513",
			want:  []string{"1313", "513"},
		},
		{
			name: "shadowed by longer rule",
			rules: []Rule{
				{Prefix: "1", Target: "5"},
				{Prefix: "12", Target: "7"},
			},
			num:  "523",
			want: []string{"523"},
		},
		{
			name:  "identity forwarded elsewhere",
			rules: []Rule{{Prefix: "5", Target: "6"}, {Prefix: "13", Target: "5"}},
			num:   "513",
			want:  []string{"1313"},
		},
		{
			name:  "nothing maps there",
			rules: []Rule{{Prefix: "5", Target: "6"}},
			num:   "5",
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := build(t, tt.rules...)
			got := pf.GetReverse(tt.num)
			require.True(t, got.Valid())
			assert.Equal(t, tt.want, got.Slice())
		})
	}
}

func TestReverseInvalid(t *testing.T) {
	pf := build(t, Rule{Prefix: "1", Target: "2"})
	for _, num := range []string{"", "2a", "x"} {
		for _, n := range []*Numbers{pf.Reverse(num), pf.GetReverse(num)} {
			assert.False(t, n.Valid(), num)
			assert.Equal(t, 1, n.Len(), num)
			_, ok := n.Get(0)
			assert.False(t, ok, num)
		}
	}
}

func randomNumber(r *rand.Rand, maxLen int) string {
	b := make([]byte, 1+r.Intn(maxLen))
	for i := range b {
		b[i] = Symbol(r.Intn(4))
	}
	return string(b)
}

// A small alphabet keeps rules overlapping so shadowing actually happens.
func TestReverseProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		pf := New()
		for i := 0; i < 20; i++ {
			_ = pf.Add(randomNumber(r, 3), randomNumber(r, 3))
		}
		for i := 0; i < 20; i++ {
			num := randomNumber(r, 5)

			reverse := pf.Reverse(num).Slice()
			assert.Contains(t, reverse, num)
			for k := 1; k < len(reverse); k++ {
				assert.True(t, Less(reverse[k-1], reverse[k]), "%v not strictly ordered", reverse)
			}

			consistent := pf.GetReverse(num).Slice()
			for _, y := range consistent {
				assert.Equal(t, num, get(t, pf, y))
				assert.Contains(t, reverse, y)
			}
			for _, y := range reverse {
				if get(t, pf, y) == num {
					assert.Contains(t, consistent, y)
				}
			}
		}
	}
}
