package agent

import (
	"strings"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// QueryKind is the processing approach a query is routed to.
type QueryKind string

const (
	KindStructured QueryKind = "structured_data"
	KindDocuments  QueryKind = "document_search"
	KindHybrid     QueryKind = "hybrid"
	KindGeneral    QueryKind = "general"
)

// Classifier scores a query against keyword families to pick a processing
// path. Scoring is additive: each keyword hit counts once, and a few strong
// phrase patterns add a two-point bonus.
type Classifier struct {
	structuredKeywords []string
	documentKeywords   []string
	executiveKeywords  []string
}

func NewClassifier() *Classifier {
	return &Classifier{
		structuredKeywords: []string{
			"salary", "employee", "count", "total", "average", "sum",
			"revenue", "profit", "expense", "budget", "cost",
			"performance rating", "attendance", "department",
		},
		documentKeywords: []string{
			"policy", "procedure", "how to", "what is", "explain",
			"architecture", "process", "guideline", "handbook",
			"documentation", "specification",
		},
		executiveKeywords: []string{
			"quarterly performance", "business units", "operational efficiency",
			"workforce analytics", "organizational health", "executive dashboard",
			"real-time kpis", "revenue growth", "margin trends", "budget utilization",
			"customer acquisition cost", "lifetime value", "board presentation",
			"system architecture", "security framework", "performance metrics",
			"technical debt", "infrastructure utilization", "scaling metrics",
			"strategic", "leadership", "c-level", "executive summary",
		},
	}
}

var (
	structuredPatterns = []string{"show me", "list", "find employees", "get data"}
	documentPatterns   = []string{"explain", "what is", "how does", "policy"}
	dashboardTerms     = []string{"dashboard", "metrics", "trends", "analysis", "performance"}
	visualTerms        = []string{
		"dashboard", "metrics", "trends", "analysis", "performance",
		"quarterly", "revenue", "growth", "utilization", "kpi",
	}
)

// Classify picks the processing path. Executive queries always go hybrid so
// they collect both tabular and document evidence. Otherwise the higher
// scoring family wins when its score clears 1; a tie with both sides scoring
// goes hybrid, and everything else is general.
func (c *Classifier) Classify(query string, role auth.Role) QueryKind {
	queryLower := strings.ToLower(query)

	executiveScore := countHits(queryLower, c.executiveKeywords)
	structuredScore := countHits(queryLower, c.structuredKeywords)
	documentScore := countHits(queryLower, c.documentKeywords)

	if containsAny(queryLower, structuredPatterns...) {
		structuredScore += 2
	}
	if containsAny(queryLower, documentPatterns...) {
		documentScore += 2
	}

	if executiveScore > 0 || (role == auth.RoleCEO && containsAny(queryLower, dashboardTerms...)) {
		return KindHybrid
	}

	switch {
	case structuredScore > documentScore && structuredScore > 1:
		return KindStructured
	case documentScore > structuredScore && documentScore > 1:
		return KindDocuments
	case structuredScore > 0 && documentScore > 0:
		return KindHybrid
	default:
		return KindGeneral
	}
}

// IsExecutiveQuery reports whether the answer should carry a chart.
func (c *Classifier) IsExecutiveQuery(query string, role auth.Role) bool {
	queryLower := strings.ToLower(query)
	if countHits(queryLower, c.executiveKeywords) > 0 {
		return true
	}
	return role == auth.RoleCEO && containsAny(queryLower, visualTerms...)
}

func countHits(s string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(s, k) {
			n++
		}
	}
	return n
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
