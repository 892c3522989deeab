package request_models

type RegenerateRequest struct {
	FocusArea string `json:"focusArea"`
}

type RegenerateSectionRequest struct {
	ImageType string `json:"imageType"`
}

type DebugRegenRequest struct {
	FocusArea string `json:"focusArea"`
	Execute   bool   `json:"execute"`
}

type CreateShareRequest struct {
	ExpiresInDays *int     `json:"expiresInDays" binding:"omitempty,min=1,max=365"`
	IsPublic      *bool    `json:"isPublic"`
	Title         string   `json:"title" binding:"max=120"`
	Emails        []string `json:"emails" binding:"omitempty,max=20,dive,email"`
}
