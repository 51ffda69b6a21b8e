package agent

import (
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/corpus"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/docindex"
	"github.com/google/uuid"
)

// User identifies the person asking. Department is informational, access
// decisions key off Role alone.
type User struct {
	ID         uuid.UUID
	Username   string
	Role       auth.Role
	Department string
}

// node is a stage of the query workflow. Every node function returns the next
// node; the run loop stops at nodeEnd.
type node string

const (
	nodeClassify    node = "classify_query"
	nodeRoute       node = "route_query"
	nodeStructured  node = "process_structured"
	nodeDocuments   node = "process_documents"
	nodeHybrid      node = "process_hybrid"
	nodeSynthesize  node = "synthesize_response"
	nodeHandleError node = "handle_error"
	nodeEnd         node = "end"
)

// documentResult is one retrieval hit normalized for synthesis.
type documentResult struct {
	Content    string
	Source     string
	Similarity float64
	Rank       int
}

// queryState accumulates everything the workflow learns about one query.
type queryState struct {
	user      User
	sessionID string
	query     string
	kind      QueryKind

	conversationHistory string
	departmentFilter    string

	structured      *corpus.Result
	documentResults []documentResult
	rawHits         []docindex.Hit

	finalResponse string
	visualization *Visualization
	metadata      map[string]interface{}
	err           string
}

func (s *queryState) setError(msg string) {
	if s.err == "" {
		s.err = msg
	}
}
