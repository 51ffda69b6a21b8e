package fusion

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// Insight is one structured numerical finding surfaced alongside prose.
type Insight struct {
	MetricName string
	Value      float64
	Unit       string
	Context    string
	Trend      string
	Comparison string
}

// QuarterMetrics is one quarter of headline financials. Revenue is in
// billions of USD, Growth is % YoY, Margin is % gross.
type QuarterMetrics struct {
	Revenue float64
	Growth  float64
	Margin  float64
}

// AnnualMetrics is the full-year rollup in billions of USD.
type AnnualMetrics struct {
	TotalRevenue float64
	NetIncome    float64
	Growth       float64
}

// FinancialSummary is the curated 2024 dataset served to authorized roles.
type FinancialSummary struct {
	Quarters map[string]QuarterMetrics
	Annual   AnnualMetrics
}

// HRSummary is the curated workforce dataset.
type HRSummary struct {
	TotalEmployees int
	Departments    map[string]int
	LeavePolicies  map[string]int
}

// Summary is the numerical side of a fused answer. Empty maps mean extraction
// produced nothing, never an error. Callers treat absence as "no structured
// data", not failure.
type Summary struct {
	Financial *FinancialSummary
	HR        *HRSummary
	Insights  []string
	Trends    map[string]string
}

func (s Summary) HasMetrics() bool {
	return s.Financial != nil || s.HR != nil
}

// Extracted financial figures pulled from free text, keyed by quarter, in
// absolute USD.
type ExtractedFinancials struct {
	Revenue     map[string]float64
	Expenses    map[string]float64
	Profit      map[string]float64
	Margins     map[string]float64
	GrowthRates map[string]float64
}

var (
	quarterNames = []string{"Q1", "Q2", "Q3", "Q4"}

	marginPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%.*?margin`)
	growthPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%.*?(?:growth|YoY)`)

	deptCountPattern = regexp.MustCompile(`(?i)(\w+):\s*(\d+)\s*employees?`)
	leavePattern     = regexp.MustCompile(`(?i)(\d+)\s*days?\s*(?:of\s*)?(\w+\s*leave)`)
)

// Analyzer extracts figures from text and serves the curated summaries. It is
// stateless; one instance is shared across the assistant.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// ExtractFinancials scans text for quarterly revenue, expense and profit
// figures plus margins and growth rates. Unmatched families stay empty.
func (a *Analyzer) ExtractFinancials(text string) ExtractedFinancials {
	out := ExtractedFinancials{
		Revenue:     map[string]float64{},
		Expenses:    map[string]float64{},
		Profit:      map[string]float64{},
		Margins:     map[string]float64{},
		GrowthRates: map[string]float64{},
	}

	for _, quarter := range quarterNames {
		if v, ok := quarterAmount(text, quarter, `revenue`); ok {
			out.Revenue[quarter] = v
		}
		if v, ok := quarterAmount(text, quarter, `(?:expenses?|costs?)`); ok {
			out.Expenses[quarter] = v
		}
		if v, ok := quarterAmount(text, quarter, `(?:profit|income)`); ok {
			out.Profit[quarter] = v
		}
	}

	if m := marginPattern.FindStringSubmatch(text); m != nil {
		out.Margins["gross_margin"], _ = strconv.ParseFloat(m[1], 64)
	}
	if m := growthPattern.FindStringSubmatch(text); m != nil {
		out.GrowthRates["revenue_growth"], _ = strconv.ParseFloat(m[1], 64)
	}
	return out
}

// quarterAmount finds "<quarter> ... <kind> ... $X billion|million" and
// returns the amount in absolute USD.
func quarterAmount(text, quarter, kind string) (float64, bool) {
	pattern, err := regexp.Compile(`(?is)` + quarter + `.*?` + kind + `.*?\$?(\d+(?:\.\d+)?)\s*(billion|million)`)
	if err != nil {
		return 0, false
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	multiplier := 1e6
	if strings.EqualFold(m[2], "billion") {
		multiplier = 1e9
	}
	return value * multiplier, true
}

// ExtractHRMetrics pulls department headcounts and leave allowances from text.
func (a *Analyzer) ExtractHRMetrics(text string) (map[string]int, map[string]int) {
	counts := map[string]int{}
	for _, m := range deptCountPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			counts[strings.ToLower(m[1])] = n
		}
	}
	leave := map[string]int{}
	for _, m := range leavePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(m[2])), " ", "_")
			leave[key] = n
		}
	}
	return counts, leave
}

// AnalyzeTrends compares consecutive quarters of extracted revenue and
// derives per-quarter profit margins.
func (a *Analyzer) AnalyzeTrends(fin ExtractedFinancials) map[string]string {
	trends := map[string]string{}

	if len(fin.Revenue) >= 2 {
		quarters := make([]string, 0, len(fin.Revenue))
		for q := range fin.Revenue {
			quarters = append(quarters, q)
		}
		sort.Strings(quarters)
		latest := fin.Revenue[quarters[len(quarters)-1]]
		previous := fin.Revenue[quarters[len(quarters)-2]]
		change := (latest - previous) / previous * 100
		switch {
		case change > 5:
			trends["revenue"] = fmt.Sprintf("Strong growth of %.1f%% quarter-over-quarter", change)
		case change > 0:
			trends["revenue"] = fmt.Sprintf("Moderate growth of %.1f%% quarter-over-quarter", change)
		default:
			trends["revenue"] = fmt.Sprintf("Decline of %.1f%% quarter-over-quarter", -change)
		}
	}

	for quarter, revenue := range fin.Revenue {
		profit, ok := fin.Profit[quarter]
		if !ok || revenue == 0 {
			continue
		}
		trends[quarter+"_margin"] = fmt.Sprintf("%.1f%% profit margin", profit/revenue*100)
	}
	return trends
}

// Summarize builds the numerical summary the fusion engine feeds on. Access
// is gated per data family: financial figures need the finance desk or the
// CEO, workforce figures need HR or the CEO. Unauthorized or unmatched
// queries come back empty.
func (a *Analyzer) Summarize(query string, role auth.Role) Summary {
	queryLower := strings.ToLower(query)
	summary := Summary{Trends: map[string]string{}}

	switch {
	case containsAny(queryLower, "financial", "revenue", "profit", "quarterly", "performance"):
		if role == auth.RoleFinance || role == auth.RoleCEO {
			summary.Financial = staticFinancialSummary()
			summary.Insights = financialInsights()
			summary.Trends = financialTrends()
		}
	case containsAny(queryLower, "employees", "department", "staff", "workforce"):
		if role == auth.RoleHR || role == auth.RoleCEO {
			summary.HR = staticHRSummary()
			summary.Insights = hrInsights()
		}
	case containsAny(queryLower, "metrics", "kpi"):
		if role == auth.RoleFinance || role == auth.RoleCEO {
			summary.Financial = staticFinancialSummary()
			summary.Insights = financialInsights()
		}
	}
	return summary
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func staticFinancialSummary() *FinancialSummary {
	return &FinancialSummary{
		Quarters: map[string]QuarterMetrics{
			"Q1_2024": {Revenue: 2.1, Growth: 22, Margin: 58},
			"Q2_2024": {Revenue: 2.3, Growth: 25, Margin: 60},
			"Q3_2024": {Revenue: 2.4, Growth: 30, Margin: 62},
			"Q4_2024": {Revenue: 2.6, Growth: 35, Margin: 64},
		},
		Annual: AnnualMetrics{TotalRevenue: 9.4, NetIncome: 1.15, Growth: 28},
	}
}

func staticHRSummary() *HRSummary {
	return &HRSummary{
		TotalEmployees: 57,
		Departments: map[string]int{
			"sales": 8, "finance": 8, "technology": 7, "business": 4,
			"marketing": 4, "qa": 4, "operations": 4, "risk": 4,
			"data": 4, "compliance": 3, "hr": 3, "product": 2, "design": 2,
		},
		LeavePolicies: map[string]int{
			"annual_leave": 25, "sick_leave": 10, "personal_leave": 5,
		},
	}
}

func financialInsights() []string {
	return []string{
		"Revenue shows consistent quarterly growth from $2.1B to $2.6B",
		"Gross margins improved from 58% to 64% throughout 2024",
		"Year-over-year growth accelerated from 22% to 35% by Q4",
		"Annual revenue of $9.4B represents 28% growth",
		"Strong cash flow generation of $1.5B from operations",
	}
}

func hrInsights() []string {
	return []string{
		"Total workforce of 57 employees across 13 departments",
		"Sales and Finance are the largest departments with 8 employees each",
		"Technology team has 7 employees supporting our fintech operations",
		"Generous leave policy with 25 days annual leave",
		"Balanced organizational structure with specialized teams",
	}
}

func financialTrends() map[string]string {
	return map[string]string{
		"revenue_trend": "Accelerating growth with 24% quarter-over-quarter increase",
		"margin_trend":  "Improving efficiency with 6 percentage point margin expansion",
		"growth_trend":  "Strong momentum with growth rate increasing each quarter",
	}
}
