package corpus

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// maxRecords caps rows returned from one query so unconstrained lookups stay
// bounded. Matches the original dataset truncation point.
const maxRecords = 1000

// Result is the structured outcome of a tabular or text retrieval. A denial is
// never represented as an empty success: Denied carries the distinction
// between "no matching data" and "you may not see this".
type Result struct {
	Success bool
	Denied  bool
	Reason  string
	Records []map[string]string
	Columns []string
	Sources []string
	Elapsed time.Duration
}

func denied(reason string) Result {
	return Result{Denied: true, Reason: reason}
}

func failed(reason string) Result {
	return Result{Reason: reason}
}

// Accessor executes role-checked queries against the catalog. Every call runs
// the three-layer check: source-level permission, row-level department
// filtering, then field-level masking. The layers are separate methods so
// each is testable in isolation.
type Accessor struct {
	catalog *Catalog
	authz   *auth.Authorizer
	tables  *gocache.Cache
	log     logger.ILogger
}

func NewAccessor(catalog *Catalog, authz *auth.Authorizer, log logger.ILogger) *Accessor {
	return &Accessor{
		catalog: catalog,
		authz:   authz,
		// Parsed tables are immutable; cache them for an hour and sweep
		// every ten minutes, like the session store.
		tables: gocache.New(1*time.Hour, 10*time.Minute),
		log:    log,
	}
}

// CheckSourceAccess is layer 1: may this role open this source at all.
func (a *Accessor) CheckSourceAccess(role auth.Role, key string) auth.Decision {
	src, ok := a.catalog.Source(key)
	if !ok {
		return auth.Deny("unknown data source %s", key)
	}
	if !roleAllowed(role, src.AccessRoles) {
		return auth.Deny("role %s may not open data source %s", role, key)
	}
	if d := a.authz.CanAccessDepartment(role, src.Department); !d.Allowed {
		return d
	}
	return a.authz.CanAccessSensitivity(role, src.Sensitivity, src.AccessRoles)
}

// QueryTable loads a CSV source and returns its rows filtered by the given
// predicates, with restricted fields masked or stripped for the role.
func (a *Accessor) QueryTable(ctx context.Context, role auth.Role, key string, preds ...Predicate) Result {
	start := time.Now()

	if d := a.CheckSourceAccess(role, key); !d.Allowed {
		a.log.Warn("corpus", "table access denied", map[string]interface{}{
			"role": string(role), "source": key, "reason": d.Reason,
		})
		res := denied(d.Reason)
		res.Elapsed = time.Since(start)
		return res
	}

	src, _ := a.catalog.Source(key)
	table, err := a.loadCached(src)
	if err != nil {
		res := failed(fmt.Sprintf("load %s: %v", key, err))
		res.Elapsed = time.Since(start)
		return res
	}

	rows := table.Filter(preds...)
	if len(rows) > maxRecords {
		rows = rows[:maxRecords]
	}

	masked, columns := a.maskRows(role, src, table.Columns, rows)

	return Result{
		Success: true,
		Records: masked,
		Columns: columns,
		Sources: []string{src.Key},
		Elapsed: time.Since(start),
	}
}

// maskRows is layer 3: strip or bucket restricted fields. HR keeps salary as
// a band; every other role with the field restricted loses the column.
func (a *Accessor) maskRows(role auth.Role, src DataSource, columns []string, rows []map[string]string) ([]map[string]string, []string) {
	restricted := a.authz.RestrictedFields(role)

	// Non-HR roles reaching an HR table (the CEO) see only basic identity
	// columns unless the table is theirs to manage.
	basicOnly := src.Department == "hr" && src.Kind == KindCSV &&
		role != auth.RoleHR && role != auth.RoleCEO

	keptColumns := make([]string, 0, len(columns))
	drop := make(map[string]bool)
	band := make(map[string]bool)
	for _, f := range restricted {
		if role == auth.RoleHR && f == "salary" {
			band[f] = true
		} else {
			drop[f] = true
		}
	}

	basicColumns := map[string]bool{
		"employee_id": true, "full_name": true, "role": true,
		"department": true, "email": true,
	}

	for _, col := range columns {
		if drop[col] {
			continue
		}
		if basicOnly && !basicColumns[col] {
			continue
		}
		keptColumns = append(keptColumns, col)
	}

	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		masked := make(map[string]string, len(keptColumns))
		for _, col := range keptColumns {
			v := row[col]
			if band[col] {
				v = MaskSalary(v)
			}
			masked[col] = v
		}
		out[i] = masked
	}
	return out, keptColumns
}

// TextMatch is one hit from a plain-text search over catalog documents.
type TextMatch struct {
	Source    string
	Line      int
	Matched   string
	Context   string
	Relevance float64
}

// textColumns is the record shape SearchText produces. Matches become rows so
// downstream consumers handle tabular and text retrieval uniformly.
var textColumns = []string{"source", "line", "matched_line", "context", "relevance"}

// SearchText scans the role's accessible markdown/text sources for the query,
// optionally restricted to one department. The ranked matches are also
// flattened into Result.Records so they survive into the synthesis prompt.
func (a *Accessor) SearchText(ctx context.Context, role auth.Role, query, departmentFilter string) (Result, []TextMatch) {
	start := time.Now()

	if departmentFilter != "" {
		if d := a.authz.CanAccessDepartment(role, departmentFilter); !d.Allowed {
			res := denied(d.Reason)
			res.Elapsed = time.Since(start)
			return res, nil
		}
	}

	var matches []TextMatch
	var sources []string
	for _, src := range a.catalog.Accessible(role) {
		if src.Kind == KindCSV {
			continue
		}
		if departmentFilter != "" && !strings.EqualFold(src.Department, departmentFilter) {
			continue
		}
		fileMatches, err := searchInFile(src, query)
		if err != nil {
			a.log.Warn("corpus", "text search skipped file", map[string]interface{}{
				"path": src.Path, "error": err.Error(),
			})
			continue
		}
		if len(fileMatches) > 0 {
			matches = append(matches, fileMatches...)
			sources = append(sources, src.Key)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > maxRecords {
		matches = matches[:maxRecords]
	}

	records := make([]map[string]string, len(matches))
	for i, m := range matches {
		records[i] = map[string]string{
			"source":       m.Source,
			"line":         strconv.Itoa(m.Line),
			"matched_line": m.Matched,
			"context":      m.Context,
			"relevance":    strconv.FormatFloat(m.Relevance, 'f', 2, 64),
		}
	}

	return Result{
		Success: true,
		Records: records,
		Columns: textColumns,
		Sources: sources,
		Elapsed: time.Since(start),
	}, matches
}

// searchInFile returns the top matches for query in one file, with two lines
// of surrounding context each. A line matches on the whole query or on any
// significant query word; relevance scoring ranks phrase hits above word hits.
func searchInFile(src DataSource, query string) ([]TextMatch, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	phrase, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, err
	}
	var wordPattern *regexp.Regexp
	if words := significantWords(query); len(words) > 0 {
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		wordPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
	}

	var matches []TextMatch
	for i, line := range lines {
		if !phrase.MatchString(line) && (wordPattern == nil || !wordPattern.MatchString(line)) {
			continue
		}
		from := i - 2
		if from < 0 {
			from = 0
		}
		to := i + 3
		if to > len(lines) {
			to = len(lines)
		}
		matches = append(matches, TextMatch{
			Source:    src.Key,
			Line:      i + 1,
			Matched:   strings.TrimSpace(line),
			Context:   strings.Join(lines[from:to], "\n"),
			Relevance: relevance(line, query),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > 10 {
		matches = matches[:10]
	}
	return matches, nil
}

// searchStopwords are query words too generic to match on alone.
var searchStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"about": true, "into": true, "what": true, "when": true, "where": true,
	"which": true, "show": true, "list": true, "give": true, "tell": true,
	"how": true, "many": true, "much": true, "please": true,
}

// significantWords keeps the query words worth matching on their own.
func significantWords(query string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) < 3 || searchStopwords[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

// relevance scores a matched line: exact substring beats word overlap, with
// bonuses for whole-word and line-initial hits.
func relevance(text, query string) float64 {
	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if strings.Contains(textLower, queryLower) {
		score := 1.0
		if strings.Contains(" "+textLower+" ", " "+queryLower+" ") {
			score += 0.5
		}
		if strings.HasPrefix(strings.TrimSpace(textLower), queryLower) {
			score += 0.3
		}
		return score
	}

	queryWords := strings.Fields(queryLower)
	if len(queryWords) == 0 {
		return 0
	}
	textWords := make(map[string]bool)
	for _, w := range strings.Fields(textLower) {
		textWords[w] = true
	}
	hits := 0
	for _, w := range queryWords {
		if textWords[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(queryWords))
}

func (a *Accessor) loadCached(src DataSource) (*Table, error) {
	cacheKey := fmt.Sprintf("%s|%d", src.Path, src.LastUpdated.UnixNano())
	if cached, ok := a.tables.Get(cacheKey); ok {
		return cached.(*Table), nil
	}
	table, err := LoadTable(src.Path)
	if err != nil {
		return nil, err
	}
	a.tables.Set(cacheKey, table, gocache.DefaultExpiration)
	return table, nil
}
