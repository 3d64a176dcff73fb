package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderUsage renders how much of an allotment has been used, like
// [████░░░░] 45%. The bar turns yellow from 75% and red once over; the
// percentage keeps counting past 100%.
func RenderUsage(used, allotted int64, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if allotted > 0 {
		pct = float64(used) / float64(allotted)
	}
	if pct < 0 {
		pct = 0
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct > 1:
		style = StyleRed
	case pct >= 0.75:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
