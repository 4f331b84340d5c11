package dto

// Message is a single chat message in an OpenAI-protocol request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAPIReq is the request payload for an OpenAI-protocol chat completion.
type OpenAPIReq struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// OpenAPIRes is the response payload of an OpenAI-protocol chat completion.
type OpenAPIRes struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion candidate.
type Choice struct {
	Message Message `json:"message"`
}

// Usage reports token consumption for one request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
