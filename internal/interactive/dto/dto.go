package dto

// ChatRequest is the inbound question payload.
type ChatRequest struct {
	UserInput string `json:"user_input"`
}

// ChatResponse carries the agent's natural-language answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// SQLPlan is the output contract of the SQL-generation agent.
type SQLPlan struct {
	Table string `json:"table"`
	SQL   string `json:"sql"`
}
