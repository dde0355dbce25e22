// File: internal/usecase/prompts.go
package usecase

import "fmt"

const zoneAnalysisPrompt = `Analyze the following DNS zone file for compliance with DNS standards and best practices. Only make suggestions if there are clear issues or meaningful opportunities for optimization. If everything is in order, state "No issues detected." Do NOT provide any suggestions regarding the SOA record unless explicitly requested. Tags should focus on DNS-specific themes.

Return your response in this format:
Suggestions:
- Suggestion 1
- Suggestion 2

Tags (JSON):
{
  "tags": ["meaningful-tag1", "meaningful-tag2"]
}

Zone file:
%s`

const healthCheckPrompt = `Analyze the following DNS health check JSON response. Summarize the overall status of each category, highlight critical issues or warnings, and provide actionable recommendations for improvement. Include the description and relevant messages from the JSON to provide context for your recommendations. If everything is in order, state "No issues detected."

Do not restate successful checks unless they add critical context. Focus on items with a status of "ERROR", "WARNING", or "BEST_PRACTICE".

Your response format should be a general summary of the issues identified in the health check. Provide it in a conversational, human-readable format and not a list.

Health check JSON:
%s`

const systemStatusPrompt = `Analyze the following UltraDNS system status JSON response. Provide a summary of the current state of the system in a conversational format. Focus on:
- Whether all services are operational or if any are down/degraded.
- Highlighting any affected services with their names and the most recent update timestamps.
- Summarizing upcoming maintenance, including affected services, scheduled times, and potential impacts.
- If there are active incidents, briefly describe them and the affected services.

If all services are operational with no issues or maintenance, state "All systems are operational, and no upcoming maintenance is scheduled."

JSON System Status:
%s`

const dnsQuestionPrompt = `Answer the following question about the Domain Name System (DNS). Provide a clear and accurate response based on relevant RFCs and DNS best practices. If the question is unrelated to DNS, respond with: "I'm sorry, but I am an assistant specifically designed for answering DNS questions. I can't help with that."

Question:
%s`

func buildZoneAnalysisPrompt(zoneData string) string { return fmt.Sprintf(zoneAnalysisPrompt, zoneData) }
func buildHealthCheckPrompt(health string) string    { return fmt.Sprintf(healthCheckPrompt, health) }
func buildSystemStatusPrompt(status string) string   { return fmt.Sprintf(systemStatusPrompt, status) }
func buildDNSQuestionPrompt(question string) string  { return fmt.Sprintf(dnsQuestionPrompt, question) }
