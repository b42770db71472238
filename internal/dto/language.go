package dto

// LanguageRequest selects the display language.
type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// LanguageResponse reports the active and site-default language.
type LanguageResponse struct {
	Language string `json:"language"`
	Default  string `json:"default"`
}
