package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/repository/memory"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/agent"
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

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (fixedEmbedder) Dimensions() int { return 3 }

type stubProvider struct {
	content string
	err     error
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.content, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.content, p.err
}

func (p *stubProvider) Name() string { return "stub" }

// recordingAudit captures published audit events for assertions.
type recordingAudit struct {
	processed []string
	denied    []string
}

func (r *recordingAudit) PublishQueryProcessed(ctx context.Context, userId uuid.UUID, role, queryKind string, confidence float64, elapsed time.Duration, sources []string) {
	r.processed = append(r.processed, queryKind)
}

func (r *recordingAudit) PublishAccessDenied(ctx context.Context, userId uuid.UUID, role, resource, reason string) {
	r.denied = append(r.denied, reason)
}

func testService(t *testing.T, provider llm.Provider) (IAssistantService, *recordingAudit) {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		filepath.Join("hr", "hr_data.csv"): "employee_id,full_name,role,department,email,salary\n" +
			"FINEMP0001,Aarav Sharma,Senior Analyst,Finance,aarav.sharma@finsolve.com,1200000\n",
		filepath.Join("general", "company_overview.md"): "# FinSolve\n\nFinSolve Technologies is a fintech company.\n",
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
	}))

	a := agent.New(agent.Deps{
		Authorizer: authz,
		Accessor:   accessor,
		Index:      index,
		Embedder:   fixedEmbedder{},
		Fusion:     fusion.NewEngine(fusion.NewAnalyzer(), log),
		LLM:        cascade.NewClient(provider, nil, cascade.Config{AttemptsPerProvider: 1}, log),
		Logger:     log,
	})

	audit := &recordingAudit{}
	return NewAssistantService(a, memory.NewSessionRepository(), audit, log), audit
}

func testUser() agent.User {
	return agent.User{ID: uuid.New(), Username: "tester", Role: auth.RoleEmployee}
}

func TestCreateSession(t *testing.T) {
	svc, _ := testService(t, &stubProvider{content: "hi"})

	session, err := svc.CreateSession(context.Background(), testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "tester", session.Username)
	assert.Empty(t, session.Messages)
}

func TestProcessQueryRecordsTurnsAndAudits(t *testing.T) {
	svc, audit := testService(t, &stubProvider{content: "You get 25 days of annual leave."})
	ctx := context.Background()
	user := testUser()

	session, err := svc.CreateSession(ctx, user)
	require.NoError(t, err)

	resp, err := svc.ProcessQuery(ctx, user, session.ID, "explain the leave policy")
	require.NoError(t, err)
	assert.Equal(t, "You get 25 days of annual leave.", resp.Content)

	history, err := svc.GetHistory(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "explain the leave policy", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)

	require.Len(t, audit.processed, 1)
	assert.Equal(t, string(agent.KindDocuments), audit.processed[0])
	assert.Empty(t, audit.denied)
}

func TestProcessQueryAutoCreatesSession(t *testing.T) {
	svc, _ := testService(t, &stubProvider{content: "hello"})

	resp, err := svc.ProcessQuery(context.Background(), testUser(), "missing-session", "hi there")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Content)
}

func TestProcessQueryPublishesAccessDenied(t *testing.T) {
	svc, audit := testService(t, &stubProvider{err: errors.New("unreachable")})
	ctx := context.Background()
	user := testUser()

	session, err := svc.CreateSession(ctx, user)
	require.NoError(t, err)

	resp, err := svc.ProcessQuery(ctx, user, session.ID, "show me the employee count")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Content)

	require.Len(t, audit.denied, 1)
	assert.Contains(t, audit.denied[0], "employee")
	require.Len(t, audit.processed, 1)
}

func TestGetHistoryUnknownSession(t *testing.T) {
	svc, _ := testService(t, &stubProvider{content: "hi"})

	_, err := svc.GetHistory(context.Background(), "nope")
	assert.Error(t, err)
}

func TestDeleteSession(t *testing.T) {
	svc, _ := testService(t, &stubProvider{content: "hi"})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, testUser())
	require.NoError(t, err)

	svc.DeleteSession(ctx, session.ID)

	_, err = svc.GetHistory(ctx, session.ID)
	assert.Error(t, err)
}
