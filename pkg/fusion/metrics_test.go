package fusion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

func TestExtractFinancials(t *testing.T) {
	analyzer := NewAnalyzer()

	text := `Q1 revenue came in at $2.1 billion. Q1 operating expenses were $800 million.
Q2 revenue reached $2.3 billion while Q2 net income hit $290 million.
The business held a 58% gross margin.
Revenue grew 22% YoY.`

	fin := analyzer.ExtractFinancials(text)

	assert.InDelta(t, 2.1e9, fin.Revenue["Q1"], 1)
	assert.InDelta(t, 2.3e9, fin.Revenue["Q2"], 1)
	assert.InDelta(t, 800e6, fin.Expenses["Q1"], 1)
	assert.InDelta(t, 290e6, fin.Profit["Q2"], 1)
	assert.InDelta(t, 58, fin.Margins["gross_margin"], 1e-9)
	assert.InDelta(t, 22, fin.GrowthRates["revenue_growth"], 1e-9)
}

func TestExtractFinancialsNoMatches(t *testing.T) {
	analyzer := NewAnalyzer()

	fin := analyzer.ExtractFinancials("the employee handbook covers onboarding")

	assert.Empty(t, fin.Revenue)
	assert.Empty(t, fin.Expenses)
	assert.Empty(t, fin.Margins)
}

func TestExtractHRMetrics(t *testing.T) {
	analyzer := NewAnalyzer()

	text := `Headcount by team: Sales: 8 employees, Finance: 8 employees, HR: 3 employees.
Everyone gets 25 days of annual leave and 10 days sick leave.`

	counts, leave := analyzer.ExtractHRMetrics(text)

	assert.Equal(t, 8, counts["sales"])
	assert.Equal(t, 3, counts["hr"])
	assert.Equal(t, 25, leave["annual_leave"])
	assert.Equal(t, 10, leave["sick_leave"])
}

func TestAnalyzeTrends(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("strong growth", func(t *testing.T) {
		trends := analyzer.AnalyzeTrends(ExtractedFinancials{
			Revenue: map[string]float64{"Q1": 2.0e9, "Q2": 2.4e9},
			Profit:  map[string]float64{"Q2": 0.6e9},
		})
		assert.Contains(t, trends["revenue"], "Strong growth of 20.0%")
		assert.Contains(t, trends["Q2_margin"], "25.0% profit margin")
	})

	t.Run("moderate growth", func(t *testing.T) {
		trends := analyzer.AnalyzeTrends(ExtractedFinancials{
			Revenue: map[string]float64{"Q1": 2.0e9, "Q2": 2.06e9},
		})
		assert.Contains(t, trends["revenue"], "Moderate growth")
	})

	t.Run("decline", func(t *testing.T) {
		trends := analyzer.AnalyzeTrends(ExtractedFinancials{
			Revenue: map[string]float64{"Q1": 2.0e9, "Q2": 1.8e9},
		})
		assert.Contains(t, trends["revenue"], "Decline of 10.0%")
	})

	t.Run("single quarter yields no trend", func(t *testing.T) {
		trends := analyzer.AnalyzeTrends(ExtractedFinancials{
			Revenue: map[string]float64{"Q1": 2.0e9},
		})
		_, ok := trends["revenue"]
		assert.False(t, ok)
	})
}

func TestSummarizeRoleGating(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("finance sees financial summary", func(t *testing.T) {
		summary := analyzer.Summarize("quarterly financial performance", auth.RoleFinance)
		require.NotNil(t, summary.Financial)
		assert.True(t, summary.HasMetrics())
		assert.InDelta(t, 9.4, summary.Financial.Annual.TotalRevenue, 1e-9)
		assert.InDelta(t, 2.6, summary.Financial.Quarters["Q4_2024"].Revenue, 1e-9)
		assert.NotEmpty(t, summary.Insights)
		assert.NotEmpty(t, summary.Trends)
	})

	t.Run("marketing denied financial summary", func(t *testing.T) {
		summary := analyzer.Summarize("quarterly financial performance", auth.RoleMarketing)
		assert.Nil(t, summary.Financial)
		assert.False(t, summary.HasMetrics())
		assert.Empty(t, summary.Insights)
	})

	t.Run("hr sees workforce summary", func(t *testing.T) {
		summary := analyzer.Summarize("how many employees per department", auth.RoleHR)
		require.NotNil(t, summary.HR)
		assert.Equal(t, 57, summary.HR.TotalEmployees)
		assert.Equal(t, 8, summary.HR.Departments["sales"])
		assert.Equal(t, 25, summary.HR.LeavePolicies["annual_leave"])
	})

	t.Run("employee denied workforce summary", func(t *testing.T) {
		summary := analyzer.Summarize("how many employees per department", auth.RoleEmployee)
		assert.Nil(t, summary.HR)
	})

	t.Run("ceo sees kpi summary", func(t *testing.T) {
		summary := analyzer.Summarize("show me the kpi numbers", auth.RoleCEO)
		require.NotNil(t, summary.Financial)
	})

	t.Run("unrelated query stays empty", func(t *testing.T) {
		summary := analyzer.Summarize("where is the office", auth.RoleCEO)
		assert.False(t, summary.HasMetrics())
	})
}

func TestHRInsightsMentionWorkforceSize(t *testing.T) {
	found := false
	for _, insight := range hrInsights() {
		if strings.Contains(insight, "57 employees") {
			found = true
		}
	}
	assert.True(t, found)
}
