package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// prepareDataContext flattens everything the processing nodes gathered into
// one block the model can cite from.
func prepareDataContext(state *queryState) string {
	var parts []string

	if state.structured != nil && state.structured.Success {
		parts = append(parts, "STRUCTURED DATA RESULTS:")
		serialized, err := json.MarshalIndent(state.structured.Records, "", "  ")
		if err != nil {
			parts = append(parts, "Structured data available but could not be serialized.")
		} else {
			parts = append(parts, string(serialized))
		}
	}

	if len(state.documentResults) > 0 {
		parts = append(parts, "\nDOCUMENT SEARCH RESULTS:")
		limit := len(state.documentResults)
		if limit > 3 {
			limit = 3
		}
		for i, doc := range state.documentResults[:limit] {
			parts = append(parts, fmt.Sprintf("\nDocument %d (Score: %.3f):", i+1, doc.Similarity))
			parts = append(parts, truncate(doc.Content, 500))
		}
	}

	if len(parts) == 0 {
		return "No specific data retrieved."
	}
	return strings.Join(parts, "\n")
}

func systemPrompt(role string) string {
	return fmt.Sprintf(`You are FinSolve AI, the intelligent conversational assistant for FinSolve Technologies, a leading financial technology company. You are helping a user with the role: %s.

CONVERSATION STYLE:
- Be conversational, friendly, and professional
- Reference previous conversation when relevant
- Acknowledge follow-up questions naturally

RESPONSE STRUCTURE - ALWAYS organize your response as follows:

## Short Answer
Provide a direct, concise answer to the question (1-2 sentences maximum).

## Detailed Analysis
Provide comprehensive information including specific data, numbers, and metrics when available, step-by-step explanations when appropriate, and strategic implications for the user's role.

## Summary
Highlight 2-3 key takeaways or action items from your response.

CHART GENERATION:
DO NOT suggest or mention charts, graphs, or visualizations in your responses. The system will automatically generate appropriate visualizations based on the data and context you provide.

COMPANY CONTEXT TO LEVERAGE:
FinSolve Technologies is a leading FinTech company with:
- 57 employees across 13 specialized departments
- Strong quarterly growth: Q1 2024 ($2.1B) to Q4 2024 ($2.6B) revenue
- Comprehensive HR policies: 25 days annual leave, 10 days sick leave, 5 days personal leave
- Advanced technical architecture with microservices, CI/CD, and security compliance
- Detailed financial performance with margins improving from 58%% to 64%%

ROLE-SPECIFIC GUIDANCE for %s:
- Provide information appropriate for this access level with full detail
- Highlight strategic implications, operational details, and performance metrics relevant to this role's responsibilities

Remember: Provide detailed, data-rich, comprehensive responses that demonstrate deep knowledge of FinSolve Technologies.`, role, role)
}

func userPrompt(query, conversationHistory, dataContext string) string {
	var parts []string

	if conversationHistory != "" {
		parts = append(parts, fmt.Sprintf("Previous Conversation:\n%s\n", conversationHistory))
	}

	parts = append(parts, fmt.Sprintf(`Current Question: %s

Available Data and Context:
%s

INSTRUCTIONS FOR STRUCTURED RESPONSE:
1. Be conversational and reference previous discussion when relevant
2. ALWAYS structure your response with these exact sections:
   ## Short Answer
   ## Detailed Analysis
   ## Summary
3. Include specific data points, numbers, and metrics when available
4. DO NOT suggest charts or visualizations - the system will automatically generate appropriate charts based on your data
5. Focus on providing comprehensive analysis, insights, and actionable recommendations`, query, dataContext))

	return strings.Join(parts, "\n")
}
