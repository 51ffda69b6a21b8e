package fusion

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/docindex"
)

// FusionType describes which side of the answer dominates.
type FusionType string

const (
	TextDominant      FusionType = "text_dominant"
	NumericalDominant FusionType = "numerical_dominant"
	Balanced          FusionType = "balanced"
)

// Strategy selects how retrieved prose and numerical data are merged.
type Strategy string

const (
	StrategyFinancial   Strategy = "financial"
	StrategyHR          Strategy = "hr"
	StrategyPerformance Strategy = "performance"
	StrategyGeneral     Strategy = "general"
)

// FusedResult is a merged answer combining retrieved text with numerical
// analysis.
type FusedResult struct {
	TextContent string
	Insights    []Insight
	Summary     Summary
	Confidence  float64
	Sources     []string
	FusionType  FusionType
}

// Confidence tuning. Base plus similarity-weighted and availability boosts,
// capped at 1.
var (
	fusionBaseConfidence   = 0.6
	fusionTextWeight       = 0.2
	fusionMetricsBoost     = 0.15
	fusionInsightsBoost    = 0.1
	financialAnalysisLabel = "Financial Analysis Engine"
	hrAnalyticsLabel       = "HR Analytics Engine"
)

// Engine merges text retrieval hits with the analyzer's numerical summaries.
type Engine struct {
	analyzer *Analyzer
	log      logger.ILogger
}

func NewEngine(analyzer *Analyzer, log logger.ILogger) *Engine {
	return &Engine{analyzer: analyzer, log: log}
}

// Fuse merges the retrieval hits and the role's numerical view of the query
// into one result.
func (e *Engine) Fuse(query string, hits []docindex.Hit, role auth.Role) FusedResult {
	strategy := e.selectStrategy(query)
	summary := e.analyzer.Summarize(query, role)

	var result FusedResult
	switch strategy {
	case StrategyFinancial:
		result = e.fuseFinancial(hits, summary)
	case StrategyHR:
		result = e.fuseHR(hits, summary)
	case StrategyPerformance:
		result = e.fusePerformance(hits, summary)
	default:
		result = e.fuseGeneral(hits, summary)
	}

	e.log.Debug("fusion", "results fused", map[string]interface{}{
		"strategy":   string(strategy),
		"hits":       len(hits),
		"confidence": result.Confidence,
	})
	return result
}

func (e *Engine) selectStrategy(query string) Strategy {
	queryLower := strings.ToLower(query)
	switch {
	case containsAny(queryLower, "financial", "revenue", "profit", "quarterly", "expenses", "performance", "cash flow"):
		return StrategyFinancial
	case containsAny(queryLower, "employees", "department", "staff", "workforce", "leave", "benefits"):
		return StrategyHR
	case containsAny(queryLower, "performance", "metrics", "kpi", "goals", "targets"):
		return StrategyPerformance
	default:
		return StrategyGeneral
	}
}

func (e *Engine) fuseFinancial(hits []docindex.Hit, summary Summary) FusedResult {
	var insights []Insight
	if summary.Financial != nil {
		for _, quarter := range orderedQuarters(summary.Financial.Quarters) {
			data := summary.Financial.Quarters[quarter]
			insights = append(insights, Insight{
				MetricName: quarter + " Revenue",
				Value:      data.Revenue,
				Unit:       "billion USD",
				Context:    fmt.Sprintf("Quarterly revenue for %s", strings.ReplaceAll(quarter, "_", " ")),
				Trend:      fmt.Sprintf("%.0f%% YoY growth", data.Growth),
			})
		}
	}

	sources := hitSources(hits)
	sources = append(sources, financialAnalysisLabel)

	return FusedResult{
		TextContent: e.financialNarrative(hits, summary),
		Insights:    insights,
		Summary:     summary,
		Confidence:  fusionConfidence(hits, summary),
		Sources:     dedupe(sources),
		FusionType:  NumericalDominant,
	}
}

func (e *Engine) fuseHR(hits []docindex.Hit, summary Summary) FusedResult {
	var insights []Insight
	if summary.HR != nil {
		for _, dept := range sortedByCount(summary.HR.Departments) {
			insights = append(insights, Insight{
				MetricName: titleCase(dept) + " Department",
				Value:      float64(summary.HR.Departments[dept]),
				Unit:       "employees",
				Context:    fmt.Sprintf("Current staffing in %s department", dept),
			})
		}
	}

	sources := hitSources(hits)
	sources = append(sources, hrAnalyticsLabel)

	return FusedResult{
		TextContent: e.hrNarrative(hits, summary),
		Insights:    insights,
		Summary:     summary,
		Confidence:  fusionConfidence(hits, summary),
		Sources:     dedupe(sources),
		FusionType:  Balanced,
	}
}

func (e *Engine) fusePerformance(hits []docindex.Hit, summary Summary) FusedResult {
	return FusedResult{
		TextContent: e.performanceNarrative(hits),
		Summary:     summary,
		Confidence:  fusionConfidence(hits, summary),
		Sources:     dedupe(hitSources(hits)),
		FusionType:  TextDominant,
	}
}

func (e *Engine) fuseGeneral(hits []docindex.Hit, summary Summary) FusedResult {
	var parts []string
	for _, hit := range hits {
		parts = append(parts, hit.Chunk.Content)
	}
	return FusedResult{
		TextContent: strings.Join(parts, "\n\n"),
		Summary:     summary,
		Confidence:  fusionConfidence(hits, summary),
		Sources:     dedupe(hitSources(hits)),
		FusionType:  TextDominant,
	}
}

func (e *Engine) financialNarrative(hits []docindex.Hit, summary Summary) string {
	var parts []string

	if summary.Financial != nil {
		parts = append(parts, "**FinSolve Technologies Financial Performance Analysis**\n")

		parts = append(parts, "**Quarterly Performance:**")
		for _, quarter := range orderedQuarters(summary.Financial.Quarters) {
			data := summary.Financial.Quarters[quarter]
			parts = append(parts, fmt.Sprintf(
				"• **%s**: $%.1fB revenue (%.0f%% YoY growth, %.0f%% gross margin)",
				quarter, data.Revenue, data.Growth, data.Margin,
			))
		}

		annual := summary.Financial.Annual
		parts = append(parts, "\n**Annual 2024 Summary:**")
		parts = append(parts, fmt.Sprintf("• Total Revenue: $%.1fB (%.0f%% YoY growth)", annual.TotalRevenue, annual.Growth))
		parts = append(parts, fmt.Sprintf("• Net Income: $%.2fB", annual.NetIncome))
	}

	if len(summary.Insights) > 0 {
		parts = append(parts, "\n**Key Financial Insights:**")
		for _, insight := range summary.Insights {
			parts = append(parts, "• "+insight)
		}
	}

	if len(summary.Trends) > 0 {
		parts = append(parts, "\n**Performance Trends:**")
		for _, key := range sortedKeys(summary.Trends) {
			parts = append(parts, "• "+summary.Trends[key])
		}
	}

	if len(hits) > 0 {
		parts = append(parts, "\n**Additional Context:**")
		for _, hit := range topHits(hits, 2) {
			parts = append(parts, "• "+snippet(hit.Chunk.Content, 200))
		}
	}

	return strings.Join(parts, "\n")
}

func (e *Engine) hrNarrative(hits []docindex.Hit, summary Summary) string {
	var parts []string

	if summary.HR != nil {
		parts = append(parts, "**FinSolve Technologies Workforce Analysis**\n")
		total := summary.HR.TotalEmployees
		parts = append(parts, fmt.Sprintf("**Total Workforce: %d employees**\n", total))
		parts = append(parts, "**Department Distribution:**")
		for _, dept := range sortedByCount(summary.HR.Departments) {
			count := summary.HR.Departments[dept]
			percentage := float64(count) / float64(total) * 100
			parts = append(parts, fmt.Sprintf("• %s: %d employees (%.1f%%)", titleCase(dept), count, percentage))
		}
	}

	if len(hits) > 0 {
		parts = append(parts, "\n**HR Policies & Information:**")
		for _, hit := range topHits(hits, 3) {
			parts = append(parts, "• "+snippet(hit.Chunk.Content, 150))
		}
	}

	return strings.Join(parts, "\n")
}

func (e *Engine) performanceNarrative(hits []docindex.Hit) string {
	parts := []string{"**Performance Metrics Overview**\n"}
	for _, hit := range hits {
		parts = append(parts, "• "+snippet(hit.Chunk.Content, 200))
	}
	return strings.Join(parts, "\n")
}

func fusionConfidence(hits []docindex.Hit, summary Summary) float64 {
	confidence := fusionBaseConfidence
	if len(hits) > 0 {
		var sum float64
		for _, hit := range hits {
			sum += hit.Similarity
		}
		confidence += sum / float64(len(hits)) * fusionTextWeight
	}
	if summary.HasMetrics() {
		confidence += fusionMetricsBoost
	}
	if len(summary.Insights) > 0 {
		confidence += fusionInsightsBoost
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func hitSources(hits []docindex.Hit) []string {
	sources := make([]string, 0, len(hits))
	for _, hit := range hits {
		key := hit.Chunk.SourceKey
		if key == "" {
			key = "Unknown"
		}
		sources = append(sources, key)
	}
	return sources
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func topHits(hits []docindex.Hit, n int) []docindex.Hit {
	if len(hits) > n {
		return hits[:n]
	}
	return hits
}

func snippet(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}

func orderedQuarters(quarters map[string]QuarterMetrics) []string {
	keys := make([]string, 0, len(quarters))
	for k := range quarters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleCase upper-cases the first rune of a department name.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// sortedByCount orders departments descending by headcount, with name as the
// tiebreak so output is stable.
func sortedByCount(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
