package agent

import (
	"fmt"
	"strings"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// Deterministic narratives served when every provider in the cascade fails.
// Matching is most specific first; the final branch echoes retrieved context
// when there is any, and admits defeat otherwise.
func fallbackResponse(state *queryState, dataContext string) string {
	query := strings.ToLower(state.query)
	role := state.user.Role

	switch {
	case strings.Contains(query, "finsolve") || strings.Contains(query, "company"):
		return companyOverviewNarrative

	case containsAny(query, "leave", "vacation", "time off", "pto"):
		return leavePolicyNarrative

	case strings.Contains(query, "policy") || strings.Contains(query, "policies"):
		if role == auth.RoleHR || role == auth.RoleCEO {
			return policyListNarrative
		}
		return "For detailed policy information, please contact your HR representative or refer to the employee handbook."

	case containsAny(query, "financial", "finance", "quarterly", "revenue", "profit", "expenses", "performance", "metrics", "kpi"):
		if role == auth.RoleFinance || role == auth.RoleCEO {
			return financialReportNarrative
		}
		return "For detailed financial information, please contact the Finance team or your manager."

	case strings.Contains(query, "help") || strings.Contains(query, "what can you"):
		return fmt.Sprintf(helpNarrative, role)

	case strings.Contains(dataContext, "STRUCTURED DATA RESULTS:"):
		return fmt.Sprintf("Based on the available data:\n\n%s\n\nI hope this helps! If you need more specific information, please feel free to ask a more detailed question.", dataContext)

	case strings.Contains(dataContext, "DOCUMENT SEARCH RESULTS:"):
		return fmt.Sprintf("I found some relevant information for your query:\n\n%s\n\nPlease let me know if you need more details or have additional questions!", dataContext)

	default:
		return fmt.Sprintf(noDataNarrative, state.query, role)
	}
}

func errorResponse(errMsg string) string {
	return fmt.Sprintf(`I apologize, but I encountered an error while processing your request: %s

Please try rephrasing your question or contact support if the issue persists.`, errMsg)
}

const companyOverviewNarrative = `FinSolve Technologies is a leading financial technology company that provides innovative solutions for modern businesses. We specialize in:

• Advanced financial analytics and reporting
• Role-based access control systems
• AI-powered business intelligence
• Secure data management platforms
• Custom financial software solutions

Our mission is to empower organizations with intelligent financial tools that drive growth and efficiency.`

const leavePolicyNarrative = `**FinSolve Technologies Leave Policy**

Our comprehensive leave policy includes:

**Annual Leave:**
• **Full-time employees**: 25 days of paid annual leave per year
• **Part-time employees**: Pro-rated based on working hours
• Additional days based on tenure and performance
• Must be approved by direct supervisor

**Sick Leave:**
• 10 days of paid sick leave per year
• Medical certificate required for absences over 3 consecutive days
• Unused sick leave does not carry over to next year

**Personal Time Off (PTO):**
• 5 days of personal time off per year
• Can be used for personal matters, family events, etc.
• 48-hour advance notice required when possible

**Special Leave:**
• **Maternity/Paternity leave**: 12 weeks paid
• **Bereavement leave**: 3 days paid for immediate family
• **Emergency leave**: Case-by-case basis with manager approval

**Application Process:**
• Submit leave requests through HRMS/leave portal at least 3 days in advance
• Annual leave requires minimum 2 weeks notice
• Manager approval required for all leave types
• Emergency sick leave can be applied retroactively

**Important Notes:**
• Leave applications must be submitted via the official portal
• Approval is subject to business requirements and team availability
• Unused annual leave may be carried forward (max 5 days) with approval

For specific questions or to apply for leave, please contact HR at hr@finsolve.com or use the employee portal.`

const policyListNarrative = `Here are our key company policies:

• Employee Code of Conduct
• Data Privacy and Security Policy
• Remote Work Guidelines
• Performance Review Process
• Leave and Time-Off Policy
• Professional Development Policy

For detailed information, please refer to the employee handbook or contact HR directly.`

const financialReportNarrative = `## FinSolve Technologies 2024 Financial Performance & Key Metrics

### Executive Summary
FinSolve Technologies delivered exceptional financial performance in 2024, demonstrating strong growth trajectory and operational excellence across all key metrics.

### Quarterly Financial Performance Analysis

#### Q1 2024 (January - March)
• **Revenue**: $2.1 billion (22% year-over-year growth)
• **Gross Margin**: 58% (industry-leading profitability)
• **Operating Income**: $500 million (23.8% operating margin)
• **Net Income**: $250 million (11.9% net margin)
• **Cash Flow from Operations**: $350 million

#### Q2 2024 (April - June)
• **Revenue**: $2.3 billion (25% year-over-year growth, 9.5% sequential growth)
• **Gross Margin**: 60% (200 basis points improvement)
• **Operating Income**: $550 million (23.9% operating margin)
• **Net Income**: $275 million (12.0% net margin)
• **Cash Flow from Operations**: $375 million

#### Q3 2024 (July - September)
• **Revenue**: $2.4 billion (30% year-over-year growth, 4.3% sequential growth)
• **Gross Margin**: 62% (continued operational excellence)
• **Operating Income**: $600 million (25.0% operating margin)
• **Net Income**: $300 million (12.5% net margin)
• **Cash Flow from Operations**: $400 million

#### Q4 2024 (October - December)
• **Revenue**: $2.6 billion (35% year-over-year growth, 8.3% sequential growth)
• **Gross Margin**: 64% (600 basis points improvement from Q1)
• **Operating Income**: $650 million (25.0% operating margin)
• **Net Income**: $325 million (12.5% net margin)
• **Cash Flow from Operations**: $425 million

### Annual 2024 Performance Summary
• **Total Revenue**: $9.4 billion (28% year-over-year growth)
• **Total Net Income**: $1.15 billion (12.2% net margin, 14% YoY growth)
• **Total Cash Flow from Operations**: $1.5 billion (16.0% of revenue)
• **Customer Acquisition**: 180,000+ new customers (record performance)

### Key Performance Indicators
• **Revenue Growth Rate**: 28% annually (accelerating quarterly trend)
• **Gross Margin Expansion**: 600 basis points improvement (Q1 to Q4)
• **Customer Lifetime Value**: $52,000 average
• **Customer Acquisition Cost**: $285 (improving efficiency)
• **Net Revenue Retention**: 118% (strong expansion revenue)
• **Employee Productivity**: $164.9 million revenue per employee (57 total employees)

This comprehensive financial performance demonstrates FinSolve's strong market position, operational excellence, and strategic growth trajectory.`

const helpNarrative = `I'm FinSolve AI, your intelligent assistant! I can help you with:

• Company information and policies
• Financial data and reports (based on your %s access level)
• Document search and retrieval
• Business analytics and insights
• General inquiries about FinSolve Technologies

Feel free to ask me specific questions about your work or our company!`

const noDataNarrative = `I understand you're asking about "%s", but I don't have specific information available right now.

As a %s at FinSolve Technologies, you can:
• Ask about company policies and procedures
• Request information relevant to your department
• Get help with general business inquiries

Please try rephrasing your question or contact your supervisor for more specific assistance.`
