package tui

import "testing"

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name          string
		width         int
		height        int
		contentWidth  int
		editorHeight  int
		summaryHeight int
		pickerHeight  int
		compactLogo   bool
	}{
		{name: "small terminal", width: 80, height: 24, contentWidth: 76, editorHeight: 3, summaryHeight: 7, pickerHeight: 10, compactLogo: true},
		{name: "tall and wide", width: 200, height: 50, contentWidth: 196, editorHeight: 5, summaryHeight: 11, pickerHeight: 12},
		{name: "narrow and very tall", width: 30, height: 60, contentWidth: 40, editorHeight: 8, summaryHeight: 18, pickerHeight: 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.contentWidth != tc.contentWidth {
				t.Fatalf("content width mismatch: got %d want %d", layout.contentWidth, tc.contentWidth)
			}
			if layout.editorHeight != tc.editorHeight {
				t.Fatalf("editor height mismatch: got %d want %d", layout.editorHeight, tc.editorHeight)
			}
			if layout.summaryHeight != tc.summaryHeight {
				t.Fatalf("summary height mismatch: got %d want %d", layout.summaryHeight, tc.summaryHeight)
			}
			if layout.pickerHeight != tc.pickerHeight {
				t.Fatalf("picker height mismatch: got %d want %d", layout.pickerHeight, tc.pickerHeight)
			}
			if layout.compactLogo != tc.compactLogo {
				t.Fatalf("compact logo mismatch: got %v want %v", layout.compactLogo, tc.compactLogo)
			}
		})
	}
}
