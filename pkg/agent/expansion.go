package agent

import (
	"sort"
	"strings"
)

// maxExpansionTerms keeps expanded queries embeddable.
const maxExpansionTerms = 20

type domainExpansion struct {
	triggers   []string
	expansions []string
}

var domainExpansions = []domainExpansion{
	{
		triggers: []string{
			"financial", "finance", "revenue", "profit", "expenses", "quarterly", "quarter",
			"q1", "q2", "q3", "q4", "cash flow", "margin", "income", "cost", "spending",
			"profitability", "budget", "roi", "investment", "vendor", "operational",
		},
		expansions: []string{
			"quarterly financial performance", "revenue", "expenses", "profit", "income",
			"gross margin", "operating income", "net income", "cash flow", "vendor costs",
			"marketing spend", "Q1", "Q2", "Q3", "Q4", "quarterly report", "financial summary",
			"expense breakdown", "profitability", "cash flow analysis", "vendor services",
			"employee benefits", "software subscriptions", "operational expenses", "2024",
			"billion", "million", "YoY", "year-over-year", "growth",
		},
	},
	{
		triggers: []string{
			"employee", "hr", "human resources", "staff", "personnel", "leave", "vacation",
			"pto", "sick", "policy", "handbook", "benefits", "compensation", "salary",
			"performance", "training", "onboarding", "demographics", "workforce", "hiring",
		},
		expansions: []string{
			"employee handbook", "leave policy", "vacation", "annual leave", "sick leave",
			"PTO", "time off", "benefits", "compensation", "salary", "performance review",
			"training programs", "onboarding", "employee demographics", "workforce composition",
			"company policies", "code of conduct", "health insurance", "retirement benefits",
			"25 days", "10 days", "full-time", "part-time", "HRMS", "portal",
		},
	},
	{
		triggers: []string{
			"engineering", "technical", "architecture", "microservices", "ci/cd",
			"devops", "security", "compliance", "gdpr", "technology", "development",
			"infrastructure", "cloud", "api", "system", "platform", "blockchain", "ai",
		},
		expansions: []string{
			"technical architecture", "microservices", "CI/CD pipelines", "DevOps practices",
			"security models", "GDPR compliance", "DPDP", "PCI-DSS", "cloud infrastructure",
			"development standards", "monitoring", "blockchain", "AI", "engineering processes",
			"system architecture", "compliance frameworks", "security audits", "fintech",
		},
	},
	{
		triggers: []string{
			"marketing", "campaign", "customer", "acquisition", "retention", "digital",
			"social media", "advertising", "brand", "promotion", "conversion", "roi",
			"engagement", "lead", "funnel", "analytics", "influencer",
		},
		expansions: []string{
			"marketing campaigns", "customer acquisition", "digital marketing", "social media",
			"advertising", "brand awareness", "conversion rate", "ROI", "customer retention",
			"marketing spend", "campaign performance", "lead generation", "marketing analytics",
			"influencer marketing", "B2B marketing", "promotional campaigns",
		},
	},
	{
		triggers: []string{
			"company", "finsolve", "organization", "business", "corporate", "mission",
			"vision", "values", "culture", "history", "about", "overview", "strategy",
		},
		expansions: []string{
			"FinSolve Technologies", "company overview", "mission", "vision", "values",
			"corporate culture", "business strategy", "company history", "organizational structure",
			"company policies", "corporate governance", "business model", "market position",
			"fintech", "financial services", "technology",
		},
	},
}

var generalExpansions = []string{
	"FinSolve Technologies", "company", "business", "operations", "performance",
	"strategy", "policies", "procedures", "employees", "customers", "services",
	"quarterly", "financial", "revenue", "expenses", "profit", "2024",
}

// expandQuery appends domain vocabulary to the query so retrieval catches
// documents that phrase things differently. Terms are deduplicated and sorted
// so the same query always expands the same way.
func expandQuery(query string) string {
	queryLower := strings.ToLower(query)

	seen := make(map[string]bool)
	var terms []string
	for _, domain := range domainExpansions {
		if !containsAny(queryLower, domain.triggers...) {
			continue
		}
		for _, term := range domain.expansions {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}
	if len(terms) == 0 {
		terms = append(terms, generalExpansions...)
	}

	sort.Strings(terms)
	if len(terms) > maxExpansionTerms {
		terms = terms[:maxExpansionTerms]
	}
	return query + " " + strings.Join(terms, " ")
}

// extractDepartmentFilter finds an explicit department mention, if any.
func extractDepartmentFilter(query string) string {
	queryLower := strings.ToLower(query)
	for _, dept := range []string{"finance", "marketing", "hr", "engineering", "general"} {
		if strings.Contains(queryLower, dept) {
			return dept
		}
	}
	return ""
}

// extractQueryParams pulls simple row filters out of natural language.
func extractQueryParams(query string) map[string]string {
	params := map[string]string{}
	queryLower := strings.ToLower(query)

	for _, dept := range []string{"finance", "marketing", "hr", "engineering", "technology"} {
		if strings.Contains(queryLower, dept) {
			params["department"] = dept
			break
		}
	}
	for _, role := range []string{"manager", "analyst", "engineer", "officer", "developer"} {
		if strings.Contains(queryLower, role) {
			params["role"] = role
			break
		}
	}
	return params
}
