package briefing

import "fmt"

// Prompts sent to the LLM provider. Wording is fixed; changing it changes
// both the resolved names and the summary layout users are used to.
const (
	resolveSystemPrompt = "You are an assistant that specializes in understanding company names. " +
		"When provided with a Korean company name, identify and correct possible typos, " +
		"then translate it to the most relevant English company name. " +
		"Focus on finding the correct US company name."

	resolveMaxTokens   = 50
	resolveTemperature = 0.7

	summarizeSystemPrompt = "You are an assistant that summarizes text in Korean."
)

const summarizeRubric = `Analyze the following 10-K document. Summarize the most important parts that investors focus on when evaluating a company in Korean. Specifically:
1. Business overview (Item 1), including revenue streams and competitive advantages.
2. Risk factors (Item 1A) and how they may impact the company.
3. Legal proceedings (Item 3) that could affect the company’s operations.
4. Key insights from Management’s Discussion and Analysis (MD&A) (Item 7).
5. Critical financial data (Item 8) from income statements, balance sheets, and cash flow statements.
6. Equity and shareholder-related matters (Item 5), such as dividends or stock buybacks.
7. Information about directors and executive officers (Item 10), including their strategies and governance.
8. Any unique competitive advantages or potential red flags for the company.
Ensure the summary is concise and focused on key takeaways.:

%s`

func resolvePrompt(query string) string {
	return fmt.Sprintf("The company name is: %s. Please correct typos if any and translate it. "+
		"I just need the company name without explanations.", query)
}

func summarizePrompt(document string) string {
	return fmt.Sprintf(summarizeRubric, document)
}
