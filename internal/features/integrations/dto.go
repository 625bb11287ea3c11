package integrations

type UpsertGithubIntegrationRequestDTO struct {
	RepoFullName string  `json:"repoFullName" binding:"required,min=3,max=200"`
	Label        string  `json:"label"        binding:"omitempty,max=50"`
	AccessToken  *string `json:"accessToken"`
}

type UpsertAgentConfigRequestDTO struct {
	Enabled bool    `json:"enabled"`
	Model   string  `json:"model"  binding:"omitempty,max=100"`
	Prompt  *string `json:"prompt" binding:"omitempty,max=2000"`
}

type IntegrationsResponseDTO struct {
	Github *GithubIntegration `json:"github"`
	Agent  *AgentConfig       `json:"agent"`
}
