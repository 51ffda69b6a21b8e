package corpus

import (
	"strconv"
	"strings"
)

// MaskSalary buckets a raw salary into a band label so restricted roles see a
// range, never the exact amount. Bands are INR lakh denominated to match the
// HR dataset.
func MaskSalary(raw string) string {
	cleaned := strings.NewReplacer(",", "", "₹", "", "$", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "Not specified"
	}
	salary, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "Not specified"
	}

	switch {
	case salary < 500_000:
		return "Below 5L"
	case salary < 1_000_000:
		return "5L - 10L"
	case salary < 1_500_000:
		return "10L - 15L"
	case salary < 2_000_000:
		return "15L - 20L"
	default:
		return "Above 20L"
	}
}
