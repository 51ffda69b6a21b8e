package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// DataKind is the on-disk format of a data source.
type DataKind string

const (
	KindCSV      DataKind = "csv"
	KindMarkdown DataKind = "markdown"
	KindText     DataKind = "text"
)

// knownDepartments are the directory names the catalog scans under the data
// root. Anything else is ignored.
var knownDepartments = []string{"engineering", "finance", "hr", "marketing", "general"}

// DataSource describes one cataloged file: where it lives, which department
// owns it, and who may read it. Built once at startup and never mutated.
type DataSource struct {
	Key         string // "<department>_<stem>"
	Name        string
	Path        string
	Department  string
	Kind        DataKind
	Sensitivity auth.Sensitivity
	AccessRoles []auth.Role
	Ownership   string
	Description string
	KeyTopics   []string
	SizeBytes   int64
	LastUpdated time.Time
}

// Catalog holds every discovered data source keyed by "<department>_<stem>".
// Read-only after construction, safe for concurrent use.
type Catalog struct {
	dir     string
	sources map[string]DataSource
	log     logger.ILogger
}

// NewCatalog scans dataDir for department subdirectories and catalogs each
// supported file. A missing directory yields an empty catalog, not an error:
// the assistant can still answer from canned metric summaries.
func NewCatalog(dataDir string, log logger.ILogger) *Catalog {
	c := &Catalog{
		dir:     dataDir,
		sources: make(map[string]DataSource),
		log:     log,
	}

	for _, dept := range knownDepartments {
		deptDir := filepath.Join(dataDir, dept)
		entries, err := os.ReadDir(deptDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			kind, ok := kindForExt(filepath.Ext(entry.Name()))
			if !ok {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				c.log.Warn("corpus", "failed to stat data file", map[string]interface{}{
					"path": filepath.Join(deptDir, entry.Name()), "error": err.Error(),
				})
				continue
			}

			stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			src := DataSource{
				Key:         fmt.Sprintf("%s_%s", dept, stem),
				Name:        stem,
				Path:        filepath.Join(deptDir, entry.Name()),
				Department:  dept,
				Kind:        kind,
				SizeBytes:   info.Size(),
				LastUpdated: info.ModTime(),
			}
			annotateSource(&src)
			c.sources[src.Key] = src
		}
	}

	c.log.Info("corpus", "data catalog built", map[string]interface{}{
		"dir": dataDir, "sources": len(c.sources),
	})
	return c
}

func kindForExt(ext string) (DataKind, bool) {
	switch strings.ToLower(ext) {
	case ".csv":
		return KindCSV, true
	case ".md":
		return KindMarkdown, true
	case ".txt":
		return KindText, true
	}
	return "", false
}

// annotateSource fills sensitivity, ownership, topics, and the access-role
// allowlist from the department and file name.
func annotateSource(src *DataSource) {
	name := strings.ToLower(src.Name)

	switch {
	case src.Department == "engineering":
		src.Sensitivity = auth.SensitivityHigh
		src.Ownership = "Engineering Team"
		src.Description = "Technical architecture and engineering process documentation"
		src.KeyTopics = []string{"microservices", "ci/cd", "security", "compliance", "devops"}
	case src.Department == "finance":
		src.Sensitivity = auth.SensitivityHigh
		src.Ownership = "Finance Team"
		src.Description = "Quarterly financial performance for 2024"
		src.KeyTopics = []string{"revenue", "income", "gross margin", "vendor costs", "cash flow"}
	case src.Department == "hr" && (strings.Contains(name, "handbook") || strings.Contains(name, "employee_handbook")):
		src.Sensitivity = auth.SensitivityMedium
		src.Ownership = "Human Resources Department"
		src.Description = "Employee handbook: policies, leave, benefits, conduct"
		src.KeyTopics = []string{"onboarding", "leave policies", "benefits", "code of conduct"}
	case src.Department == "hr":
		src.Sensitivity = auth.SensitivityHigh
		src.Ownership = "HR & People Analytics"
		src.Description = "Employee dataset: demographics, compensation, leave, performance"
		src.KeyTopics = []string{"demographics", "compensation", "leave", "attendance", "performance"}
	case src.Department == "marketing":
		src.Sensitivity = auth.SensitivityMedium
		src.Ownership = "Marketing Team"
		src.Description = "Campaign overviews, spend allocation, and performance metrics"
		src.KeyTopics = []string{"campaigns", "customer acquisition", "conversion", "roi"}
	default:
		src.Sensitivity = auth.SensitivityMedium
		src.Ownership = "General"
		src.Description = "General company documentation"
		src.KeyTopics = []string{"company", "policies"}
	}

	src.AccessRoles = accessRolesFor(src.Department)
}

// accessRolesFor returns the roles allowed to open sources in a department.
// The CEO always has access; "general" is open to every business role.
func accessRolesFor(department string) []auth.Role {
	roles := []auth.Role{auth.RoleCEO}
	switch department {
	case "hr":
		roles = append(roles, auth.RoleHR)
	case "finance":
		roles = append(roles, auth.RoleFinance)
	case "marketing":
		roles = append(roles, auth.RoleMarketing)
	case "engineering":
		roles = append(roles, auth.RoleEngineering)
	case "general":
		roles = append(roles,
			auth.RoleEmployee, auth.RoleHR, auth.RoleFinance,
			auth.RoleMarketing, auth.RoleEngineering)
	}
	return roles
}

// Source looks up a data source by key.
func (c *Catalog) Source(key string) (DataSource, bool) {
	src, ok := c.sources[key]
	return src, ok
}

// Accessible returns every source a role may open, in no particular order.
func (c *Catalog) Accessible(role auth.Role) []DataSource {
	var out []DataSource
	for _, src := range c.sources {
		if roleAllowed(role, src.AccessRoles) {
			out = append(out, src)
		}
	}
	return out
}

// All returns every cataloged source (indexer use).
func (c *Catalog) All() []DataSource {
	out := make([]DataSource, 0, len(c.sources))
	for _, src := range c.sources {
		out = append(out, src)
	}
	return out
}

func roleAllowed(role auth.Role, allowed []auth.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
