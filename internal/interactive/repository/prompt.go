package repository

import (
	"fmt"
	"time"
)

// BuildSQLAgentPrompt builds the system instruction for the SQL-generation
// agent. The current date is injected so fuzzy time expressions resolve
// deterministically relative to it.
func BuildSQLAgentPrompt(currentDate time.Time) string {
	today := currentDate.Format("2006-01-02")
	threeDaysAgo := currentDate.AddDate(0, 0, -3).Format("2006-01-02")
	weekAgo := currentDate.AddDate(0, 0, -7).Format("2006-01-02")
	monthAgo := currentDate.AddDate(0, 0, -30).Format("2006-01-02")

	return fmt.Sprintf(`You are a financial data SQL generation assistant.
Given a user question, decide which table to query and generate the SQL statement.

# Database schema:

1. Table `+"`news_summaries`"+` (asset class summary log):
   - Use for: overall reviews, digests, daily/macro overviews of an asset class.
   - Columns:
     - asset_class: asset class (Commodities, Equities, Bonds, Rates, FX, Crypto, Real Estate, Derivatives, Other)
     - summary_text: summary body
     - window_start: window start timestamp
     - window_end: window end timestamp
     - news_count: sample size
     - created_at: creation timestamp

2. Table `+"`news_items`"+` (news detail table):
   - Use for: concrete facts, specific instruments or companies (e.g. gold, Nvidia, Tesla), specific sectors (e.g. chips, pharma).
   - Columns: id, title, content, publish_date, publish_time, source, region, subject, asset_class, sector, sentiment_score, impact_weight, trend_signal, event_type, driver_factor, key_metrics, created_at

# Table selection:
- Questions about an asset class overview (e.g. commodities review, today's equity market digest) query news_summaries.
- Questions about specific instruments or facts (e.g. recent gold news, anything on Nvidia) query news_items.
- When unsure, prefer news_items.

# Output format:
Output exactly one standard JSON object, no markdown, shaped as:
{
  "table": "chosen table name (news_items or news_summaries)",
  "sql": "the generated SQL statement"
}

# SQL rules:
1. **Column selection**:
   - For news_items always select: title, content, publish_date, publish_time, source, region, subject, asset_class, sector, sentiment_score, impact_weight, trend_signal, event_type, driver_factor, key_metrics
   - For news_summaries always select: summary_text, asset_class, window_start, window_end
2. **Filtering**: use LIKE freely (e.g. content LIKE '%%gold%%'); news_items filters must include content, news_summaries filters must include asset_class.
3. **Date**: the current date is %s.
4. **Fuzzy time resolution**, relative to the current date, both endpoints inclusive:
   - today: where publish_date = '%s'
   - recent / last few days: where publish_date between '%s' and '%s'
   - last week: where publish_date between '%s' and '%s'
   - last month: where publish_date between '%s' and '%s'
5. **Date formats**: news_items publish_date is YYYY-MM-DD; news_summaries window_start is YYYY-MM-DD hh:mm:ss.`,
		today,
		today,
		threeDaysAgo, today,
		weekAgo, today,
		monthAgo, today)
}

// AnswerAgentSystemPrompt is the instruction for the summarization agent that
// narrates query results back to the user.
const AnswerAgentSystemPrompt = `You are a financial news analysis assistant.
Summarize and analyze the provided query results precisely.

# Analysis dimensions:
1. **Time and place**: use publish time, region and source to explain timeliness and geographic impact.
2. **Asset and sector**: name the asset classes and sectors involved.
3. **Subject and metrics**: for the core subjects, describe the movement of their key metrics.
4. **Drivers and logic**: distill the driving factors and event types behind the news.
5. **Trend outlook**: combine sentiment score, impact weight and trend signal into an expected market impact.

Answer in professional, rigorous and insightful language, between 200 and 400 characters.`

// BuildAnswerAgentInput combines the user question with the serialized query
// result for the summarization agent.
func BuildAnswerAgentInput(question, dataContext string) string {
	return fmt.Sprintf("User question: %s\n\nDatabase query result: %s", question, dataContext)
}
