package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/corpus"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/docindex"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/fusion"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm/cascade"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fixedEmbedder maps every text to the same unit vector, so every indexed
// chunk scores a perfect similarity and retrieval behavior is deterministic.
type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (fixedEmbedder) Dimensions() int { return 3 }

type stubProvider struct {
	content string
	err     error
	calls   int
	prompts []string
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	if len(history) > 0 {
		p.prompts = append(p.prompts, history[len(history)-1].Content)
	}
	return p.content, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, nil, options...)
}

func (p *stubProvider) Name() string { return "stub" }

func testAgent(t *testing.T, provider llm.Provider) *Agent {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		filepath.Join("hr", "hr_data.csv"): "employee_id,full_name,role,department,email,salary\n" +
			"FINEMP0001,Aarav Sharma,Senior Analyst,Finance,aarav.sharma@finsolve.com,1200000\n",
		filepath.Join("general", "company_overview.md"): "# FinSolve\n\nFinSolve Technologies is a fintech company.\n",
		filepath.Join("finance", "quarterly_report.md"): "# Q4\n\nQ4 revenue reached $2.6 billion.\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	log := nopLogger{}
	authz := auth.NewAuthorizer()
	catalog := corpus.NewCatalog(dir, log)
	accessor := corpus.NewAccessor(catalog, authz, log)

	index := docindex.NewMemoryIndex(docindex.DefaultSearchOptions())
	require.NoError(t, index.Upsert(context.Background(), []docindex.Chunk{
		{ID: "gen_1", SourceKey: "general_company_overview", Department: "general",
			Content: "Annual leave is 25 days per year.", Embedding: []float32{1, 0, 0}},
		{ID: "fin_1", SourceKey: "finance_quarterly_report", Department: "finance",
			Content: "Q4 revenue reached $2.6 billion.", Embedding: []float32{1, 0, 0}},
	}))

	return New(Deps{
		Authorizer: authz,
		Accessor:   accessor,
		Index:      index,
		Embedder:   fixedEmbedder{},
		Fusion:     fusion.NewEngine(fusion.NewAnalyzer(), log),
		LLM:        cascade.NewClient(provider, nil, cascade.Config{AttemptsPerProvider: 1}, log),
		Logger:     log,
	})
}

func testUser(role auth.Role) User {
	return User{ID: uuid.New(), Username: "tester", Role: role, Department: string(role)}
}

func TestProcessQueryDocumentFlow(t *testing.T) {
	provider := &stubProvider{content: "The leave policy grants 25 days of annual leave."}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "explain the leave policy", testUser(auth.RoleEmployee), "s1", "")

	assert.Equal(t, KindDocuments, resp.QueryKind)
	assert.Equal(t, "The leave policy grants 25 days of annual leave.", resp.Content)
	assert.Equal(t, "stub", resp.Metadata["provider_used"])
	assert.Equal(t, true, resp.Metadata["fusion_used"])
	assert.Contains(t, resp.Sources, "Multimodal Fusion Engine")
	assert.InDelta(t, 0.78, resp.Confidence, 1e-9)
	assert.Nil(t, resp.Visualization)
	assert.NotEmpty(t, resp.ShortAnswer)
}

func TestProcessQueryFallbackWhenProvidersFail(t *testing.T) {
	provider := &stubProvider{err: errors.New("unreachable")}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "explain the leave policy", testUser(auth.RoleEmployee), "s1", "")

	assert.Equal(t, leavePolicyNarrative, resp.Content)
	assert.Equal(t, true, resp.Metadata["fallback_used"])
	assert.InDelta(t, 0.68, resp.Confidence, 1e-9)
}

func TestProcessQueryStructuredDenied(t *testing.T) {
	provider := &stubProvider{err: errors.New("unreachable")}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "show me the employee count", testUser(auth.RoleEmployee), "s1", "")

	assert.Equal(t, KindStructured, resp.QueryKind)
	assert.NotEmpty(t, resp.Metadata["access_denied"])
	assert.Empty(t, resp.Sources)
	assert.NotEmpty(t, resp.Content)
	assert.InDelta(t, 0.6, resp.Confidence, 1e-9)
}

func TestProcessQueryStructuredForHR(t *testing.T) {
	provider := &stubProvider{content: "## Short Answer\nOne analyst works in Finance."}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "show me the employee count", testUser(auth.RoleHR), "s1", "")

	assert.Equal(t, KindStructured, resp.QueryKind)
	assert.Nil(t, resp.Metadata["access_denied"])
	assert.Contains(t, resp.Sources, "hr_hr_data")
	assert.Equal(t, "One analyst works in Finance.", resp.ShortAnswer)
}

func TestProcessQueryTextSearchReachesPrompt(t *testing.T) {
	provider := &stubProvider{content: "Q4 revenue was $2.6 billion."}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "show me revenue data", testUser(auth.RoleFinance), "s1", "")

	assert.Equal(t, KindStructured, resp.QueryKind)
	assert.Contains(t, resp.Sources, "finance_quarterly_report")
	require.NotEmpty(t, provider.prompts)
	assert.Contains(t, provider.prompts[0], "STRUCTURED DATA RESULTS:")
	assert.Contains(t, provider.prompts[0], "$2.6 billion")
	assert.InDelta(t, 0.9, resp.Confidence, 1e-9)
}

func TestAuthorizedHitsSensitivityGate(t *testing.T) {
	a := testAgent(t, &stubProvider{})

	hits := []docindex.Hit{
		{Chunk: docindex.Chunk{ID: "c1", Department: "general",
			Content: "Annual leave is 25 days per year."}, Similarity: 0.9},
		{Chunk: docindex.Chunk{ID: "c2", Department: "general",
			Content:     "Board minutes for the quarter.",
			Sensitivity: auth.SensitivityHigh,
			AccessRoles: []auth.Role{auth.RoleCEO}}, Similarity: 0.8},
		{Chunk: docindex.Chunk{ID: "c3", Department: "general",
			Content: "Compensation bands are confidential."}, Similarity: 0.7},
	}

	employee := a.authorizedHits(auth.RoleEmployee, hits)
	require.Len(t, employee, 1)
	assert.Equal(t, "c1", employee[0].Chunk.ID)
	assert.Equal(t, 1, employee[0].Rank)

	hr := a.authorizedHits(auth.RoleHR, hits)
	require.Len(t, hr, 2)
	assert.Equal(t, "c1", hr[0].Chunk.ID)
	assert.Equal(t, "c3", hr[1].Chunk.ID)
	assert.Equal(t, 2, hr[1].Rank)

	ceo := a.authorizedHits(auth.RoleCEO, hits)
	assert.Len(t, ceo, 3)
}

func TestProcessQueryUnknownRoleIsAnError(t *testing.T) {
	provider := &stubProvider{content: "should never be asked"}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "explain the leave policy", testUser(auth.Role("contractor")), "s1", "")

	assert.Contains(t, resp.Content, "error")
	assert.Zero(t, resp.Confidence)
	assert.Equal(t, 0, provider.calls)
}

func TestFallbackSkipsChartWithoutFusion(t *testing.T) {
	provider := &stubProvider{err: errors.New("unreachable")}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "show me the employee count", testUser(auth.RoleHR), "s1", "")

	assert.Equal(t, true, resp.Metadata["fallback_used"])
	assert.Nil(t, resp.Metadata["fusion_used"])
	assert.Nil(t, resp.Visualization)
}

func TestFallbackKeepsChartWhenFusionUsed(t *testing.T) {
	provider := &stubProvider{err: errors.New("unreachable")}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "quarterly performance dashboard", testUser(auth.RoleCEO), "s1", "")

	assert.Equal(t, true, resp.Metadata["fallback_used"])
	assert.Equal(t, true, resp.Metadata["fusion_used"])
	assert.NotNil(t, resp.Visualization)
}

func TestProcessQueryCEOHybridGetsChart(t *testing.T) {
	provider := &stubProvider{content: "Performance is strong across the board."}
	a := testAgent(t, provider)

	resp := a.ProcessQuery(context.Background(), "quarterly performance dashboard", testUser(auth.RoleCEO), "s1", "")

	assert.Equal(t, KindHybrid, resp.QueryKind)
	require.NotNil(t, resp.Visualization)
	assert.Equal(t, ChartLine, resp.Visualization.Type)
	assert.Equal(t, []float64{2.1, 2.3, 2.5, 2.6}, resp.Visualization.Values)
	assert.Equal(t, true, resp.Metadata["visualization_used"])
	assert.InDelta(t, 1.0, resp.Confidence, 1e-9)
}
