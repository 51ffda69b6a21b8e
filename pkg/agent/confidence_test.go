package agent

import (
	"math"
	"testing"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/corpus"
)

func TestConfidenceScore(t *testing.T) {
	tests := []struct {
		name  string
		state *queryState
		want  float64
	}{
		{
			name: "unrecovered error scores zero",
			state: &queryState{
				err:           "provider unreachable",
				finalResponse: "partial text",
				metadata:      map[string]interface{}{},
			},
			want: 0.0,
		},
		{
			name: "empty response scores zero",
			state: &queryState{
				metadata: map[string]interface{}{},
			},
			want: 0.0,
		},
		{
			name: "provider answer base",
			state: &queryState{
				finalResponse: "answer",
				metadata:      map[string]interface{}{},
			},
			want: 0.7,
		},
		{
			name: "fallback answer starts lower",
			state: &queryState{
				finalResponse: "canned answer",
				metadata:      map[string]interface{}{"fallback_used": true},
			},
			want: 0.6,
		},
		{
			name: "error recovered by fallback still scores",
			state: &queryState{
				err:           "provider unreachable",
				finalResponse: "canned answer",
				metadata:      map[string]interface{}{"fallback_used": true},
			},
			want: 0.6,
		},
		{
			name: "structured success adds a fifth",
			state: &queryState{
				finalResponse: "answer",
				structured:    &corpus.Result{Success: true},
				metadata:      map[string]interface{}{},
			},
			want: 0.9,
		},
		{
			name: "document similarity weighs in",
			state: &queryState{
				finalResponse: "answer",
				documentResults: []documentResult{
					{Similarity: 0.8},
					{Similarity: 0.6},
				},
				metadata: map[string]interface{}{},
			},
			want: 0.7 + 0.7*0.1,
		},
		{
			name: "score is capped at one",
			state: &queryState{
				finalResponse: "answer",
				structured:    &corpus.Result{Success: true},
				documentResults: []documentResult{
					{Similarity: 1.0},
					{Similarity: 1.0},
				},
				metadata: map[string]interface{}{},
			},
			want: 1.0,
		},
		{
			name: "denied structured result adds nothing",
			state: &queryState{
				finalResponse: "answer",
				structured:    &corpus.Result{Denied: true},
				metadata:      map[string]interface{}{},
			},
			want: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidenceScore(tt.state)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("confidenceScore = %v, want %v", got, tt.want)
			}
		})
	}
}
