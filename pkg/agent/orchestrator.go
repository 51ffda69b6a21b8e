package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/corpus"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/docindex"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/embedding"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/fusion"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm/cascade"
)

// fusionUseThreshold gates whether a fused narrative replaces raw retrieval
// hits as the response body.
const fusionUseThreshold = 0.7

// maxWorkflowSteps bounds the state machine. The longest legitimate path is
// classify, route, one processing stage, synthesize.
const maxWorkflowSteps = 6

// employeeTableKey is the catalog key of the HR roster CSV.
const employeeTableKey = "hr_hr_data"

// Response is the full answer to one query.
type Response struct {
	Content        string
	ShortAnswer    string
	Detailed       string
	Summary        string
	Sources        []string
	Confidence     float64
	ProcessingTime time.Duration
	QueryKind      QueryKind
	Metadata       map[string]interface{}
	Visualization  *Visualization
}

// Agent routes a query through classification, role-checked retrieval,
// fusion and synthesis.
type Agent struct {
	classifier *Classifier
	authz      *auth.Authorizer
	accessor   *corpus.Accessor
	index      docindex.Index
	embedder   embedding.Provider
	fusion     *fusion.Engine
	llm        *cascade.Client
	log        logger.ILogger
	maxDocs    int
}

type Deps struct {
	Authorizer *auth.Authorizer
	Accessor   *corpus.Accessor
	Index      docindex.Index
	Embedder   embedding.Provider
	Fusion     *fusion.Engine
	LLM        *cascade.Client
	Logger     logger.ILogger
	MaxDocs    int
}

func New(deps Deps) *Agent {
	maxDocs := deps.MaxDocs
	if maxDocs <= 0 {
		maxDocs = 5
	}
	return &Agent{
		classifier: NewClassifier(),
		authz:      deps.Authorizer,
		accessor:   deps.Accessor,
		index:      deps.Index,
		embedder:   deps.Embedder,
		fusion:     deps.Fusion,
		llm:        deps.LLM,
		log:        deps.Logger,
		maxDocs:    maxDocs,
	}
}

// ProcessQuery runs the workflow for one query and always returns a usable
// Response, degraded answers included.
func (a *Agent) ProcessQuery(ctx context.Context, query string, user User, sessionID, conversationHistory string) Response {
	start := time.Now()

	state := &queryState{
		user:                user,
		sessionID:           sessionID,
		query:               query,
		conversationHistory: conversationHistory,
		metadata: map[string]interface{}{
			"start_time":               start.Format(time.RFC3339),
			"has_conversation_context": conversationHistory != "",
		},
	}

	current := nodeClassify
	for steps := 0; current != nodeEnd && steps < maxWorkflowSteps; steps++ {
		current = a.step(ctx, current, state)
	}

	sources := a.collectSources(state)
	content := state.finalResponse
	if content == "" {
		content = "I couldn't process your request."
	}
	sections := parseSections(content, query)

	kind := state.kind
	if kind == "" {
		kind = KindGeneral
	}

	return Response{
		Content:        content,
		ShortAnswer:    sections.ShortAnswer,
		Detailed:       sections.Detailed,
		Summary:        sections.Summary,
		Sources:        sources,
		Confidence:     confidenceScore(state),
		ProcessingTime: time.Since(start),
		QueryKind:      kind,
		Metadata:       state.metadata,
		Visualization:  state.visualization,
	}
}

func (a *Agent) step(ctx context.Context, current node, state *queryState) node {
	switch current {
	case nodeClassify:
		return a.classifyNode(state)
	case nodeRoute:
		return a.routeNode(state)
	case nodeStructured:
		a.processStructured(ctx, state)
		return nodeSynthesize
	case nodeDocuments:
		a.processDocuments(ctx, state)
		return nodeSynthesize
	case nodeHybrid:
		a.processStructured(ctx, state)
		a.processDocuments(ctx, state)
		return nodeSynthesize
	case nodeSynthesize:
		return a.synthesizeNode(ctx, state)
	case nodeHandleError:
		return a.handleErrorNode(state)
	default:
		return nodeEnd
	}
}

func (a *Agent) classifyNode(state *queryState) node {
	if _, err := auth.ParseRole(string(state.user.Role)); err != nil {
		state.setError(err.Error())
		return nodeRoute
	}

	state.kind = a.classifier.Classify(state.query, state.user.Role)
	state.metadata["classification_time"] = time.Now().Format(time.RFC3339)
	a.log.Info("agent", "query classified", map[string]interface{}{
		"kind": string(state.kind),
		"user": state.user.Username,
	})
	return nodeRoute
}

func (a *Agent) routeNode(state *queryState) node {
	state.metadata["routing_decision"] = string(state.kind)
	state.metadata["user_role"] = string(state.user.Role)

	if state.err != "" {
		return nodeHandleError
	}
	switch state.kind {
	case KindStructured:
		return nodeStructured
	case KindHybrid:
		return nodeHybrid
	default:
		// General queries fall through to document search.
		return nodeDocuments
	}
}

// processStructured answers tabular questions from the catalog's CSV data,
// falling back to role-checked text search for non-roster topics.
func (a *Agent) processStructured(ctx context.Context, state *queryState) {
	query := state.query
	queryLower := strings.ToLower(query)

	var result corpus.Result
	switch {
	case containsAny(queryLower, "employee", "hr"):
		preds := paramsToPredicates(extractQueryParams(query))
		result = a.accessor.QueryTable(ctx, state.user.Role, employeeTableKey, preds...)
	case containsAny(queryLower, "financial", "revenue"):
		result, _ = a.accessor.SearchText(ctx, state.user.Role, query, "finance")
	default:
		result, _ = a.accessor.SearchText(ctx, state.user.Role, query, "")
	}

	state.structured = &result
	if result.Denied {
		state.metadata["access_denied"] = result.Reason
		a.log.Warn("agent", "structured access denied", map[string]interface{}{
			"user":   state.user.Username,
			"reason": result.Reason,
		})
	}
}

// processDocuments retrieves from the vector index within the role's
// departments and runs the results through fusion.
func (a *Agent) processDocuments(ctx context.Context, state *queryState) {
	state.departmentFilter = extractDepartmentFilter(state.query)

	departments := a.authz.AccessibleDepartments(state.user.Role)
	if state.departmentFilter != "" {
		if d := a.authz.CanAccessDepartment(state.user.Role, state.departmentFilter); d.Allowed {
			departments = []string{state.departmentFilter}
		}
	}

	hits, err := a.searchIndex(ctx, expandQuery(state.query), state.user.Role, departments)
	if err != nil {
		state.setError(fmt.Sprintf("document retrieval failed: %v", err))
		return
	}
	if len(hits) == 0 {
		// The expansion can drown a very specific query; retry verbatim.
		hits, err = a.searchIndex(ctx, state.query, state.user.Role, departments)
		if err != nil {
			state.setError(fmt.Sprintf("document retrieval failed: %v", err))
			return
		}
	}
	state.rawHits = hits

	fused := a.fusion.Fuse(state.query, hits, state.user.Role)
	if fused.Confidence > fusionUseThreshold {
		state.finalResponse = fused.TextContent
		state.metadata["fusion_used"] = true
		state.metadata["fusion_confidence"] = fused.Confidence
		state.metadata["fusion_type"] = string(fused.FusionType)

		state.documentResults = []documentResult{{
			Content:    fused.TextContent,
			Source:     "Multimodal Fusion Engine",
			Similarity: fused.Confidence,
			Rank:       1,
		}}
		return
	}

	state.documentResults = make([]documentResult, len(hits))
	for i, hit := range hits {
		state.documentResults[i] = documentResult{
			Content:    hit.Chunk.Content,
			Source:     hit.Chunk.SourceKey,
			Similarity: hit.Similarity,
			Rank:       hit.Rank,
		}
	}
}

func (a *Agent) searchIndex(ctx context.Context, query string, role auth.Role, departments []string) ([]docindex.Hit, error) {
	vector, err := a.embedder.Embed(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := a.index.Search(ctx, vector, departments, a.maxDocs)
	if err != nil {
		return nil, err
	}
	return a.authorizedHits(role, hits), nil
}

// sensitiveContentTerms gate a retrieved chunk to personal-data roles even
// when its source tier would pass, mirroring the field masking on the
// tabular side.
var sensitiveContentTerms = []string{"salary", "compensation", "confidential"}

// authorizedHits drops hits the role's tier does not clear and renumbers
// the survivors so ranks stay dense.
func (a *Agent) authorizedHits(role auth.Role, hits []docindex.Hit) []docindex.Hit {
	kept := make([]docindex.Hit, 0, len(hits))
	for _, hit := range hits {
		if d := a.authz.CanAccessSensitivity(role, hit.Chunk.Sensitivity, hit.Chunk.AccessRoles); !d.Allowed {
			continue
		}
		if containsAny(strings.ToLower(hit.Chunk.Content), sensitiveContentTerms...) &&
			!a.authz.Permissions(role).PersonalData {
			continue
		}
		kept = append(kept, hit)
	}
	return docindex.AssignRanks(kept)
}

func (a *Agent) synthesizeNode(ctx context.Context, state *queryState) node {
	dataContext := prepareDataContext(state)

	history := []llm.Message{
		{Role: "system", Content: systemPrompt(string(state.user.Role))},
		{Role: "user", Content: userPrompt(state.query, state.conversationHistory, dataContext)},
	}

	completion := a.llm.Complete(ctx, history,
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(2000),
	)

	if completion.Success {
		state.finalResponse = completion.Content
		state.metadata["llm_response_time"] = completion.Elapsed.Seconds()
		state.metadata["provider_used"] = completion.Provider
	} else {
		a.log.Warn("agent", "all providers failed, using fallback", map[string]interface{}{
			"error": completion.Err.Error(),
		})
		state.finalResponse = fallbackResponse(state, dataContext)
		state.metadata["fallback_used"] = true
	}

	// On the fallback path a chart is attached only when fusion produced
	// the underlying numbers.
	fallbackUsed, _ := state.metadata["fallback_used"].(bool)
	fusionUsed, _ := state.metadata["fusion_used"].(bool)
	if (!fallbackUsed || fusionUsed) && shouldVisualize(state.query, state.user.Role) {
		state.visualization = buildVisualization(state.query)
		state.metadata["visualization_used"] = true
	}

	return nodeEnd
}

func (a *Agent) handleErrorNode(state *queryState) node {
	msg := state.err
	if msg == "" {
		msg = "An unknown error occurred"
	}
	state.finalResponse = errorResponse(msg)
	a.log.Error("agent", "error handled", map[string]interface{}{"error": msg})
	return nodeEnd
}

func (a *Agent) collectSources(state *queryState) []string {
	var sources []string
	seen := make(map[string]bool)

	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			sources = append(sources, s)
		}
	}

	if state.structured != nil {
		for _, s := range state.structured.Sources {
			add(s)
		}
	}
	for _, doc := range state.documentResults {
		add(doc.Source)
	}
	return sources
}

func paramsToPredicates(params map[string]string) []corpus.Predicate {
	var preds []corpus.Predicate
	if dept, ok := params["department"]; ok {
		preds = append(preds, corpus.FieldContains{Field: "department", Value: dept})
	}
	if role, ok := params["role"]; ok {
		preds = append(preds, corpus.FieldContains{Field: "role", Value: role})
	}
	return preds
}
