package auth

import (
	"fmt"
	"strings"
)

// Role identifies a user's access tier. Roles are static; the permission
// matrix for each role is fixed at compile time and never mutated.
type Role string

const (
	RoleEmployee    Role = "employee"
	RoleHR          Role = "hr"
	RoleFinance     Role = "finance"
	RoleMarketing   Role = "marketing"
	RoleEngineering Role = "engineering"
	RoleCEO         Role = "ceo"
	RoleSystemAdmin Role = "system_admin"
)

// ParseRole validates a raw role string (e.g. from a decoded JWT claim).
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleEmployee, RoleHR, RoleFinance, RoleMarketing, RoleEngineering, RoleCEO, RoleSystemAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Sensitivity classifies a document or data source. High-sensitivity items are
// gated by an explicit role allowlist regardless of department match.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Permissions is the full access record for one role.
type Permissions struct {
	Departments      []string
	DataKinds        []string // "all" acts as a wildcard
	RestrictedFields []string // field-level masking, independent of row access
	PersonalData     bool
}

// DataKindAll is the wildcard entry in Permissions.DataKinds.
const DataKindAll = "all"

var rolePermissions = map[Role]Permissions{
	RoleEmployee: {
		Departments: []string{"general"},
		DataKinds:   []string{"policies", "handbook", "announcements", "faqs"},
	},
	RoleHR: {
		Departments: []string{"hr", "general"},
		DataKinds:   []string{"employee_data", "policies", "handbook", "payroll", "performance"},
		// HR sees salary bands, never raw amounts.
		RestrictedFields: []string{"salary"},
		PersonalData:     true,
	},
	RoleFinance: {
		Departments: []string{"finance", "general"},
		DataKinds:   []string{"financial_reports", "expenses", "budgets", "vendor_costs", "policies"},
	},
	RoleMarketing: {
		Departments: []string{"marketing", "general"},
		DataKinds:   []string{"campaigns", "customer_data", "sales_metrics", "market_research", "policies"},
	},
	RoleEngineering: {
		Departments: []string{"engineering", "general"},
		DataKinds:   []string{"technical_docs", "architecture", "processes", "policies", "development"},
	},
	RoleCEO: {
		Departments:  []string{"finance", "marketing", "hr", "engineering", "general"},
		DataKinds:    []string{DataKindAll},
		PersonalData: true,
	},
	RoleSystemAdmin: {
		// Operational role: user management only, no business data.
		Departments: []string{"system", "general"},
		DataKinds:   []string{"user_management", "system_logs", "security_settings", "policies"},
	},
}
