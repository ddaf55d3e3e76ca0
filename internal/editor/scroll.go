package editor

import "fmt"

// ScrollWindow is the review position over committed history. Index 1 is
// the live editing view; each step back shows the previous screenful.
type ScrollWindow struct {
	index         int
	linesOnScreen int
}

func NewScrollWindow(linesOnScreen int) *ScrollWindow {
	if linesOnScreen < 1 {
		linesOnScreen = 1
	}
	return &ScrollWindow{index: 1, linesOnScreen: linesOnScreen}
}

func (s *ScrollWindow) Index() int         { return s.index }
func (s *ScrollWindow) LinesOnScreen() int { return s.linesOnScreen }
func (s *ScrollWindow) Reviewing() bool    { return s.index > 1 }
func (s *ScrollWindow) Reset()             { s.index = 1 }

// MaxIndex is the furthest scroll-back position for n committed lines.
func (s *ScrollWindow) MaxIndex(n int) int {
	return ceilDiv(n, s.linesOnScreen) + 1
}

// Back moves one screen towards the start of the document.
func (s *ScrollWindow) Back(n int) RefreshIntent {
	s.index++
	if limit := s.MaxIndex(n); s.index > limit {
		s.index = limit
	}
	return IntentFullFrame
}

// Forward moves one screen towards the live view.
func (s *ScrollWindow) Forward() RefreshIntent {
	s.index--
	if s.index < 1 {
		s.index = 1
	}
	return IntentFullFrame
}

// Bounds returns the [start, end) range of committed lines visible at the
// current index.
func (s *ScrollWindow) Bounds(n int) (start, end int) {
	start = n - s.linesOnScreen*s.index
	if start < 0 {
		start = 0
	}
	end = start + s.linesOnScreen
	if end > n {
		end = n
	}
	return start, end
}

// Page returns the page shown and the page count for n committed lines.
func (s *ScrollWindow) Page(n int) (current, total int) {
	total = ceilDiv(n, s.linesOnScreen)
	if total < 1 {
		total = 1
	}
	current = total - s.index + 1
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	return current, total
}

// PageIndicator formats Page for the console overlay.
func (s *ScrollWindow) PageIndicator(n int) string {
	current, total := s.Page(n)
	return fmt.Sprintf("[%d/%d]", current, total)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
