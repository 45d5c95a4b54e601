package dto

type TokenRequest struct {
	APIKey string `json:"api_key"`
}

type CreateAuditRequest struct {
	Prompt        string `json:"prompt"`
	GeneratedCode string `json:"generated_code"`
}
