package toolkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchString(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Batch
		want  string
	}{
		{
			name:  "empty",
			build: NewBatch,
			want:  "{}",
		},
		{
			name: "sample",
			build: func() *Batch {
				b := NewBatch()
				b.Set("text", "hello sdg_hub", "this is a test")
				return b
			},
			want: "{'text': ['hello sdg_hub', 'this is a test']}",
		},
		{
			name: "insertion order",
			build: func() *Batch {
				b := NewBatch()
				b.Set("z", "1")
				b.Set("a")
				b.Set("z", "2")
				return b
			},
			want: "{'z': ['2'], 'a': []}",
		},
		{
			name: "escaping",
			build: func() *Batch {
				b := NewBatch()
				b.Set("q", `back\slash`, "two\nlines", "tab\there")
				return b
			},
			want: `{'q': ['back\\slash', 'two\nlines', 'tab\there']}`,
		},
		{
			name: "single quote switches to double quotes",
			build: func() *Batch {
				b := NewBatch()
				b.Set("q", `it's`)
				return b
			},
			want: `{'q': ["it's"]}`,
		},
		{
			name: "both quotes keep single quotes",
			build: func() *Batch {
				b := NewBatch()
				b.Set("q", `it's "x"`)
				return b
			},
			want: `{'q': ['it\'s "x"']}`,
		},
		{
			name: "control characters",
			build: func() *Batch {
				b := NewBatch()
				b.Set("c", "a\x00b\x1bc\x7f", "nbsp\u00a0", "zw\u200b", "h\u00e9llo")
				return b
			},
			want: `{'c': ['a\x00b\x1bc\x7f', 'nbsp\xa0', 'zw\u200b', 'héllo']}`,
		},
		{
			name:  "nil",
			build: func() *Batch { return nil },
			want:  "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build().String())
		})
	}
}

func TestBatchSetCopiesValues(t *testing.T) {
	values := []string{"a", "b"}
	b := NewBatch()
	b.Set("text", values...)
	values[0] = "changed"

	got, ok := b.Get("text")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestBatchZeroValue(t *testing.T) {
	var b Batch
	b.Set("text", "x")

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []string{"text"}, b.Keys())

	_, ok := b.Get("missing")
	assert.False(t, ok)
}
