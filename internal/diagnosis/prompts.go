package diagnosis

import (
	"fmt"
	"strings"

	"diagnostic-ai-agent/internal/session"
)

// prompts.go holds the prompt templates and canned assistant messages used by
// the diagnostic pipeline. Keeping them together makes them easy to tune
// without touching the control flow.

const systemPrompt = `You are an advanced AI medical assistant with access to up-to-date medical literature, expert guidelines, and peer-reviewed studies. Your role is to:
1. Conduct a structured diagnostic evaluation, mimicking a board-certified physician's approach.
2. Use differential diagnosis methods, listing probable conditions with confidence scores assessing the likelihood of each condition.
3. Prioritize high-accuracy, medically reviewed sources (such as but not limited to PubMed, Mayo Clinic, NIH, UpToDate).
4. Clearly communicate **when emergency medical care might be required**.
5. Provide a clear, structured medical report summarizing likely conditions with citations to justify the evaluation, risk assessments, and next steps.

IMPORTANT: If a user describes symptoms that suggest a medical emergency (such as signs of heart attack, stroke, severe bleeding, difficulty breathing, or severe allergic reaction), immediately advise them to seek emergency medical care.`

const (
	// failsafeTransitionMessage is sent when the question ceiling forces the
	// conversation into the research stage.
	failsafeTransitionMessage = "Based on the information gathered so far, I will now proceed with the analysis."

	// parseFailureMessage replaces the assistant reply when the evaluator's
	// structured output could not be parsed.
	parseFailureMessage = "I seem to be having trouble. Could you please clarify your symptoms?"

	// generationFailureMessage replaces the assistant reply when the
	// generation capability itself failed.
	generationFailureMessage = "I encountered an issue. Could you please try again?"

	// resetAcknowledgment is sent after the conversation restarts on a new
	// topic.
	resetAcknowledgment = "Okay, let's focus on this new topic. Please tell me about the new symptoms or concerns you have."

	// complexityNotice is appended before a forced report when the routing
	// step bound is exhausted.
	complexityNotice = "[SYSTEM] Generating final analysis report due to complexity..."

	// missingReportFallback frames the final message when no report content
	// exists.
	missingReportFallback = "Analysis could not be generated."
)

// formatHistory renders the message history for inclusion in prompts.
func formatHistory(messages []session.Message) string {
	var b strings.Builder
	for _, m := range messages {
		role := "Assistant"
		if m.Role == session.RoleUser {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", role, m.Content)
	}
	return strings.TrimSpace(b.String())
}

func extractionPrompt(allUserInput string) string {
	return fmt.Sprintf(`Based on the following user messages, extract key symptom information:

%s

Extract and organize these details into a structured format:
- Primary symptoms (list each with severity and duration)
- Secondary/associated symptoms
- Timing and patterns
- Aggravating or relieving factors
- Relevant medical history mentioned

Return as a concise, structured text summary.`, allUserInput)
}

func evaluatorPrompt(s *session.Session) string {
	extracted := s.SymptomDetails.ExtractedData
	if extracted == "" {
		extracted = "No structured summary yet."
	}
	return fmt.Sprintf(`%s

You are in the **information gathering** stage of a medical consultation. Your goal is to gather sufficient detail to perform a preliminary analysis following a standard procedure.

Conversation History:
%s

Current Symptom Understanding (internal summary - may be incomplete):
%s

Based on the conversation history and your understanding:

1. **Assess Sufficiency:** Do you have enough detail about the main complaints? Consider key aspects like:
   * Onset & Duration
   * Location & Radiation
   * Quality/Character (e.g., sharp, dull, pressure)
   * Severity
   * Timing/Frequency
   * Aggravating/Alleviating Factors
   * Associated Symptoms
   * Relevant Medical History

2. **Decide Action and Format Output:** Respond ONLY with a valid JSON object containing two keys:
   * "proceed_to_research": A boolean value (true if you have sufficient detail, false otherwise).
   * "assistant_message": The message to display to the user.
     - If proceeding to research, a brief, empathetic confirmation.
     - If continuing conversation, the single most important follow-up question.

Do not include any emergency recommendations in the "assistant_message" at this stage.
This is conversation turn %d.

Ensure your entire response is ONLY the JSON object without any explanation.`,
		systemPrompt, formatHistory(s.Messages), extracted, s.QuestionCount)
}

func researchQuery(symptomSummary string) string {
	return fmt.Sprintf(`Based on the following symptom information:
%s

Perform medical research focusing on:
1. Most probable conditions (ranked).
2. Brief explanation, causes, risk factors for each.
3. Cite relevant, authoritative sources (e.g., Mayo Clinic, NIH, PubMed links).
4. Suggest potential diagnostic steps.`, symptomSummary)
}

func analysisPrompt(symptomSummary, researchData string) string {
	return fmt.Sprintf(`%s
Generate a detailed medical analysis based on the conversation and research.
Format the entire report using Markdown syntax. Use headings, bullet points, and
bold text for clarity and readability.

SYMPTOM SUMMARY:
%s

RESEARCH FINDINGS:
%s

Your analysis report should include:
1. Summary of key symptoms and risk factors (from conversation).
2. Differential diagnosis: Ranked list of probable conditions with confidence scores.
3. Explanation of top 2-3 conditions (causes, symptoms matching/not matching).
4. Recommended next steps (e.g., see primary care, specialist, diagnostics).
5. Reiterate if any symptoms warrant immediate emergency care. Include medical disclaimers.`,
		systemPrompt, symptomSummary, researchData)
}

func frameReport(content string) string {
	return fmt.Sprintf("--- Medical Analysis Report ---\n\n%s\n\n--- End of Report ---", content)
}
