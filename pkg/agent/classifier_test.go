package agent

import (
	"testing"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name  string
		query string
		role  auth.Role
		want  QueryKind
	}{
		{
			name:  "structured data request",
			query: "show me the total employee count by department",
			role:  auth.RoleHR,
			want:  KindStructured,
		},
		{
			name:  "document lookup",
			query: "explain the leave policy in the handbook",
			role:  auth.RoleEmployee,
			want:  KindDocuments,
		},
		{
			name:  "executive phrasing always hybrid",
			query: "prepare an executive summary of quarterly performance",
			role:  auth.RoleFinance,
			want:  KindHybrid,
		},
		{
			name:  "ceo dashboard vocabulary hybrid",
			query: "pull up the dashboard",
			role:  auth.RoleCEO,
			want:  KindHybrid,
		},
		{
			name:  "dashboard vocabulary alone is general for others",
			query: "pull up the dashboard",
			role:  auth.RoleMarketing,
			want:  KindGeneral,
		},
		{
			name:  "tied families go hybrid",
			query: "list the employee policy",
			role:  auth.RoleHR,
			want:  KindHybrid,
		},
		{
			name:  "small talk is general",
			query: "hello there",
			role:  auth.RoleEmployee,
			want:  KindGeneral,
		},
		{
			name:  "single weak keyword stays general",
			query: "tell me about the department",
			role:  auth.RoleEmployee,
			want:  KindGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.query, tt.role); got != tt.want {
				t.Errorf("Classify(%q, %s) = %s, want %s", tt.query, tt.role, got, tt.want)
			}
		})
	}
}

func TestIsExecutiveQuery(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name  string
		query string
		role  auth.Role
		want  bool
	}{
		{name: "executive keyword any role", query: "board presentation on margin trends", role: auth.RoleFinance, want: true},
		{name: "ceo visual vocabulary", query: "revenue this quarter", role: auth.RoleCEO, want: true},
		{name: "visual vocabulary without ceo", query: "revenue this quarter", role: auth.RoleFinance, want: false},
		{name: "plain question", query: "what is the leave policy", role: auth.RoleCEO, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.IsExecutiveQuery(tt.query, tt.role); got != tt.want {
				t.Errorf("IsExecutiveQuery(%q, %s) = %v, want %v", tt.query, tt.role, got, tt.want)
			}
		})
	}
}
