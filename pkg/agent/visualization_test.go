package agent

import (
	"testing"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

func TestShouldVisualize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		role  auth.Role
		want  bool
	}{
		{name: "ceo always", query: "hello", role: auth.RoleCEO, want: true},
		{name: "trigger term", query: "revenue trends", role: auth.RoleFinance, want: true},
		{name: "plain question", query: "what is the leave policy", role: auth.RoleEmployee, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldVisualize(tt.query, tt.role); got != tt.want {
				t.Errorf("shouldVisualize(%q, %s) = %v, want %v", tt.query, tt.role, got, tt.want)
			}
		})
	}
}

func TestBuildVisualization(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantType  ChartType
		wantFirst float64
	}{
		{name: "leave comparison is a pie", query: "compare leave types", wantType: ChartPie, wantFirst: 25},
		{name: "leave usage is a bar", query: "leave usage", wantType: ChartBar, wantFirst: 12},
		{name: "workforce is a bar", query: "employee distribution", wantType: ChartBar, wantFirst: 45},
		{name: "quarterly is a line", query: "quarterly revenue", wantType: ChartLine, wantFirst: 2.1},
		{name: "default is a line", query: "overview", wantType: ChartLine, wantFirst: 2.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viz := buildVisualization(tt.query)
			if viz.Type != tt.wantType {
				t.Errorf("type = %s, want %s", viz.Type, tt.wantType)
			}
			if viz.Values[0] != tt.wantFirst {
				t.Errorf("first value = %v, want %v", viz.Values[0], tt.wantFirst)
			}
			if len(viz.Labels) != len(viz.Values) {
				t.Errorf("labels and values must pair: %d vs %d", len(viz.Labels), len(viz.Values))
			}
		})
	}
}
