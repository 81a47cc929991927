package tui

import "strings"

// scrollPane is a read-only block of text scrolled line by line.
type scrollPane struct {
	content string
	lines   []string
	offset  int
}

func (p *scrollPane) setContent(content string) {
	p.content = content
	p.lines = strings.Split(strings.TrimRight(content, "\n"), "\n")
	p.offset = 0
}

func (p *scrollPane) maxOffset(viewHeight int) int {
	return max(len(p.lines)-viewHeight, 0)
}

func (p *scrollPane) scrollDown(amount, viewHeight int) {
	p.offset = min(p.offset+amount, p.maxOffset(viewHeight))
}

func (p *scrollPane) scrollUp(amount int) {
	p.offset = max(p.offset-amount, 0)
}

func (p *scrollPane) jumpToTop() {
	p.offset = 0
}

func (p *scrollPane) jumpToBottom(viewHeight int) {
	p.offset = p.maxOffset(viewHeight)
}
