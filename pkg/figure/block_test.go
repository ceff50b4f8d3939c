package figure

import "testing"

func TestExtractBlocks(t *testing.T) {
	text := `Question 4
[FIGURE]
type: circle_chord
description: first
[/FIGURE]
(a) Find x.
[figure]type: generic
description: second[/figure]
`
	blocks := ExtractBlocks(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Index != 0 || blocks[1].Index != 1 {
		t.Errorf("indexes = %d, %d", blocks[0].Index, blocks[1].Index)
	}
	if blocks[0].Text != "type: circle_chord\ndescription: first" {
		t.Errorf("block 0 text = %q", blocks[0].Text)
	}
	if blocks[1].Text != "type: generic\ndescription: second" {
		t.Errorf("block 1 text = %q", blocks[1].Text)
	}
	if blocks[0].Offset >= blocks[1].Offset {
		t.Errorf("offsets not increasing: %d, %d", blocks[0].Offset, blocks[1].Offset)
	}
}

func TestExtractBlocks_None(t *testing.T) {
	if got := ExtractBlocks("no figures here [FIGURE] unterminated"); len(got) != 0 {
		t.Errorf("got %d blocks, want 0", len(got))
	}
}

func TestNormalizeBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lost first indent",
			in:   "type: generic\n    description: d\n    elements: []",
			want: "type: generic\ndescription: d\nelements: []",
		},
		{
			name: "uniform indent",
			in:   "  type: generic\n  elements:\n    - point: {label: A}",
			want: "type: generic\nelements:\n  - point: {label: A}",
		},
		{
			name: "already flat",
			in:   "type: generic\nelements:\n  - point: {label: A}",
			want: "type: generic\nelements:\n  - point: {label: A}",
		},
		{
			name: "crlf and blank lines",
			in:   "type: generic\r\n\r\n  description: d",
			want: "type: generic\n\ndescription: d",
		},
		{
			name: "blank",
			in:   "  \n ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBlock(tt.in); got != tt.want {
				t.Errorf("NormalizeBlock(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
