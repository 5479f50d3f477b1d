package output

import (
	"fmt"
	"strings"
)

// ScoreBar renders a visual bar for a 0-100 score.
// Example: "████████░░ 80/100"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((score / 100.0) * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleError
	switch {
	case score >= 70:
		style = StyleSuccess
	case score >= 40:
		style = StyleWarning
	}

	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%.0f/100", score)))
}

// RatioBar renders a 0-1 ratio such as a success rate or confidence as a
// score bar.
func RatioBar(ratio float64, width int) string {
	return ScoreBar(ratio*100, width)
}

// Percent formats a 0-1 ratio as a whole percentage.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
// higherIsBetter decides whether an increase is colored as an improvement.
func TrendArrow(delta float64, higherIsBetter bool) string {
	return arrow(delta, higherIsBetter, "%+.2f")
}

// TrendArrowPercent is TrendArrow for deltas already in percent.
func TrendArrowPercent(delta float64, higherIsBetter bool) string {
	return arrow(delta, higherIsBetter, "%+.0f%%")
}

func arrow(delta float64, higherIsBetter bool, format string) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	up := delta > 0
	symbol := "▼ "
	if up {
		symbol = "▲ "
	}
	text := symbol + fmt.Sprintf(format, delta)

	if up == higherIsBetter {
		return StyleSuccess.Render(text)
	}
	return StyleError.Render(text)
}

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
