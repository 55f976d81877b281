package tui

const (
	minContentWidth   = 40
	horizontalPadding = 4
	// Below this height the block logo gives way to a one-line title.
	compactLogoBelow  = 40
	fullHeaderHeight  = 8
	compactHeader     = 1
	fixedChromeHeight = 26
	minEditorHeight   = 3
	maxEditorHeight   = 10
	minSummaryHeight  = 4
)

type pageLayout struct {
	windowWidth   int
	windowHeight  int
	contentWidth  int
	editorHeight  int
	summaryHeight int
	pickerHeight  int
	compactLogo   bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth:  76,
		editorHeight:  5,
		summaryHeight: 10,
		pickerHeight:  10,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	inner := width - horizontalPadding
	if inner < minContentWidth {
		inner = minContentWidth
	}
	l.contentWidth = inner
	l.compactLogo = height < compactLogoBelow

	header := fullHeaderHeight
	if l.compactLogo {
		header = compactHeader
	}
	usable := height - header - fixedChromeHeight
	if usable < 10 {
		usable = 10
	}
	l.editorHeight = usable / 3
	if l.editorHeight < minEditorHeight {
		l.editorHeight = minEditorHeight
	}
	if l.editorHeight > maxEditorHeight {
		l.editorHeight = maxEditorHeight
	}
	l.summaryHeight = usable - l.editorHeight
	if l.summaryHeight < minSummaryHeight {
		l.summaryHeight = minSummaryHeight
	}
	// the picker takes the place of the upload and transcript panels
	l.pickerHeight = l.editorHeight + 7
}
