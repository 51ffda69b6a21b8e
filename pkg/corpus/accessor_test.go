package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

const hrCSV = `employee_id,full_name,role,department,email,salary,leave_balance
FINEMP0001,Aarav Sharma,Senior Analyst,Finance,aarav.sharma@finsolve.com,1200000,18
FINEMP0002,Diya Patel,Engineer,Technology,diya.patel@finsolve.com,950000,22
FINEMP0003,Rohan Gupta,Manager,Finance,rohan.gupta@finsolve.com,2400000,12
`

const overviewMD = `# FinSolve Technologies

FinSolve Technologies is a fintech company serving enterprise clients.

## Leave Policy

Employees receive 25 days of annual leave and 10 days of sick leave.
`

const financeMD = `# Quarterly Report 2024

Q4 revenue reached $2.6 billion with a 64% gross margin.
`

// fixtureAccessor lays out a data directory the catalog recognizes and wires
// an accessor over it.
func fixtureAccessor(t *testing.T) *Accessor {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		filepath.Join("hr", "hr_data.csv"):              hrCSV,
		filepath.Join("general", "company_overview.md"): overviewMD,
		filepath.Join("finance", "quarterly_report.md"): financeMD,
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	log := nopLogger{}
	catalog := NewCatalog(dir, log)
	require.Len(t, catalog.All(), 3)
	return NewAccessor(catalog, auth.NewAuthorizer(), log)
}

func TestCheckSourceAccess(t *testing.T) {
	accessor := fixtureAccessor(t)

	tests := []struct {
		name    string
		role    auth.Role
		key     string
		allowed bool
	}{
		{name: "hr opens employee table", role: auth.RoleHR, key: "hr_hr_data", allowed: true},
		{name: "ceo opens employee table", role: auth.RoleCEO, key: "hr_hr_data", allowed: true},
		{name: "employee denied employee table", role: auth.RoleEmployee, key: "hr_hr_data", allowed: false},
		{name: "finance denied employee table", role: auth.RoleFinance, key: "hr_hr_data", allowed: false},
		{name: "employee opens general docs", role: auth.RoleEmployee, key: "general_company_overview", allowed: true},
		{name: "finance opens its report", role: auth.RoleFinance, key: "finance_quarterly_report", allowed: true},
		{name: "marketing denied finance report", role: auth.RoleMarketing, key: "finance_quarterly_report", allowed: false},
		{name: "unknown source", role: auth.RoleCEO, key: "finance_missing", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := accessor.CheckSourceAccess(tt.role, tt.key)
			assert.Equal(t, tt.allowed, d.Allowed, d.Reason)
			if !tt.allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestQueryTableMasksSalaryForHR(t *testing.T) {
	accessor := fixtureAccessor(t)

	res := accessor.QueryTable(context.Background(), auth.RoleHR, "hr_hr_data")
	require.True(t, res.Success)
	require.False(t, res.Denied)
	require.Len(t, res.Records, 3)

	assert.Contains(t, res.Columns, "salary")
	assert.Equal(t, "10L - 15L", res.Records[0]["salary"])
	assert.Equal(t, "5L - 10L", res.Records[1]["salary"])
	assert.Equal(t, "Above 20L", res.Records[2]["salary"])
	assert.Equal(t, []string{"hr_hr_data"}, res.Sources)
}

func TestQueryTableCEOSeesRawSalary(t *testing.T) {
	accessor := fixtureAccessor(t)

	res := accessor.QueryTable(context.Background(), auth.RoleCEO, "hr_hr_data")
	require.True(t, res.Success)
	assert.Equal(t, "1200000", res.Records[0]["salary"])
}

func TestQueryTableDeniedIsNotEmptySuccess(t *testing.T) {
	accessor := fixtureAccessor(t)

	res := accessor.QueryTable(context.Background(), auth.RoleEmployee, "hr_hr_data")
	assert.False(t, res.Success)
	assert.True(t, res.Denied)
	assert.NotEmpty(t, res.Reason)
	assert.Empty(t, res.Records)
}

func TestQueryTableAppliesPredicates(t *testing.T) {
	accessor := fixtureAccessor(t)

	res := accessor.QueryTable(context.Background(), auth.RoleHR, "hr_hr_data",
		FieldEquals{Field: "department", Value: "finance"})
	require.True(t, res.Success)
	require.Len(t, res.Records, 2)
	for _, row := range res.Records {
		assert.Equal(t, "Finance", row["department"])
	}
}

func TestSearchTextRespectsRoleScope(t *testing.T) {
	accessor := fixtureAccessor(t)

	res, matches := accessor.SearchText(context.Background(), auth.RoleEmployee, "annual leave", "")
	require.True(t, res.Success)
	require.NotEmpty(t, matches)
	assert.Equal(t, []string{"general_company_overview"}, res.Sources)

	// The finance report is outside the employee's scope even though it
	// would match a revenue query.
	res, matches = accessor.SearchText(context.Background(), auth.RoleEmployee, "revenue", "")
	require.True(t, res.Success)
	assert.Empty(t, matches)
	assert.Empty(t, res.Sources)
}

func TestSearchTextReturnsRecords(t *testing.T) {
	accessor := fixtureAccessor(t)

	res, matches := accessor.SearchText(context.Background(), auth.RoleFinance, "show me revenue data", "finance")
	require.True(t, res.Success)
	require.NotEmpty(t, matches)
	require.Len(t, res.Records, len(matches))

	rec := res.Records[0]
	assert.Equal(t, "finance_quarterly_report", rec["source"])
	assert.Contains(t, rec["matched_line"], "$2.6 billion")
	assert.NotEmpty(t, rec["relevance"])
	assert.Contains(t, res.Columns, "matched_line")
}

func TestSearchTextDepartmentFilterDenied(t *testing.T) {
	accessor := fixtureAccessor(t)

	res, matches := accessor.SearchText(context.Background(), auth.RoleEmployee, "revenue", "finance")
	assert.True(t, res.Denied)
	assert.Nil(t, matches)
}

func TestSearchTextSkipsTables(t *testing.T) {
	accessor := fixtureAccessor(t)

	// "Sharma" only appears in the CSV, which text search never scans.
	res, matches := accessor.SearchText(context.Background(), auth.RoleCEO, "Sharma", "")
	require.True(t, res.Success)
	assert.Empty(t, matches)
}

func TestRelevanceScoring(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  float64
	}{
		{name: "line-initial whole word", text: "leave policy applies to all staff", query: "leave policy", want: 1.8},
		{name: "embedded whole word", text: "the leave policy applies", query: "leave policy", want: 1.5},
		{name: "partial word overlap", text: "annual leave accrues monthly", query: "leave policy", want: 0.5},
		{name: "no overlap", text: "vendor costs rose", query: "leave policy", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, relevance(tt.text, tt.query), 1e-9)
		})
	}
}
