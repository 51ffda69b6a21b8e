package agent

import (
	"strings"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// ChartType names the rendering the client should use.
type ChartType string

const (
	ChartPie  ChartType = "pie_chart"
	ChartBar  ChartType = "bar_chart"
	ChartLine ChartType = "line_chart"
)

// Visualization is a render-ready chart request. The assistant never draws;
// it hands the client labeled series and lets the UI pick the toolkit.
type Visualization struct {
	Type        ChartType
	Title       string
	Description string
	Labels      []string
	Values      []float64
}

var chartTriggerTerms = []string{
	"quarterly", "performance", "trends", "revenue", "growth", "budget", "utilization",
	"departments", "allocation", "workforce", "organizational", "employees", "staff",
	"system", "architecture", "infrastructure", "metrics", "dashboard", "analytics",
	"financial", "analysis", "chart", "graph", "data", "show me", "display",
}

// shouldVisualize reports whether a successful answer warrants a chart.
func shouldVisualize(query string, role auth.Role) bool {
	if role == auth.RoleCEO {
		return true
	}
	return containsAny(strings.ToLower(query), chartTriggerTerms...)
}

// buildVisualization picks a canned chart for the query, most specific rule
// first.
func buildVisualization(query string) *Visualization {
	queryLower := strings.ToLower(query)

	hasLeaveTerms := containsAny(queryLower, "leave", "vacation", "time off", "pto")
	hasComparisonTerms := containsAny(queryLower, "compare", "comparison", "types", "breakdown", "days")

	switch {
	case hasLeaveTerms && hasComparisonTerms:
		return &Visualization{
			Type:        ChartPie,
			Title:       "Leave Type Entitlements (Days per Year)",
			Description: "Annual leave provides 25 days, maternity/paternity 84 days (12 weeks), sick leave 10 days, personal leave 5 days, emergency leave 3 days",
			Labels:      []string{"Annual Leave", "Sick Leave", "Personal Leave", "Maternity/Paternity", "Emergency Leave"},
			Values:      []float64{25, 10, 5, 84, 3},
		}
	case containsAny(queryLower, "leave", "vacation", "time off", "absence"):
		return &Visualization{
			Type:        ChartBar,
			Title:       "Leave Usage by Department",
			Description: "Average leave days taken per employee by department",
			Labels:      []string{"Engineering", "Finance", "HR", "Marketing", "Sales"},
			Values:      []float64{12, 8, 15, 10, 9},
		}
	case containsAny(queryLower, "employee", "staff", "workforce", "hr", "human"):
		return &Visualization{
			Type:        ChartBar,
			Title:       "Employee Distribution by Department",
			Description: "Current workforce distribution across all departments",
			Labels:      []string{"Engineering", "Finance", "HR", "Marketing", "Sales", "Operations"},
			Values:      []float64{45, 28, 15, 22, 35, 30},
		}
	case containsAny(queryLower, "quarterly", "performance", "trends", "revenue", "growth", "financial"):
		return &Visualization{
			Type:        ChartLine,
			Title:       "Quarterly Revenue Growth (Billions USD)",
			Description: "Revenue trend showing consistent growth across quarters",
			Labels:      []string{"Q1 2024", "Q2 2024", "Q3 2024", "Q4 2024"},
			Values:      []float64{2.1, 2.3, 2.5, 2.6},
		}
	default:
		return &Visualization{
			Type:        ChartLine,
			Title:       "Business Performance Overview",
			Description: "Overall business performance showing consistent growth",
			Labels:      []string{"Q1 2024", "Q2 2024", "Q3 2024", "Q4 2024"},
			Values:      []float64{2.1, 2.3, 2.5, 2.6},
		}
	}
}
