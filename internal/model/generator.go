package model

// GenerateRequest represents a password generation request.
// Pointer fields allow distinguishing between missing (nil -> default) and explicit values.
type GenerateRequest struct {
	Length         *int  `json:"length"`
	Uppercase      *bool `json:"uppercase"`
	Lowercase      *bool `json:"lowercase"`
	Numbers        *bool `json:"numbers"`
	Symbols        *bool `json:"symbols"`
	ExcludeSimilar *bool `json:"exclude_similar"`
	RequireAll     *bool `json:"require_all"`
	Pronounceable  *bool `json:"pronounceable"`
	TitleCase      *bool `json:"title_case"`
}

// GenerateResponse represents a password generation response.
// Password is empty when no character set was selected.
type GenerateResponse struct {
	Password string           `json:"password"`
	Length   int              `json:"length"`
	Strength StrengthResponse `json:"strength"`
	History  []HistoryEntry   `json:"history,omitempty"`
}

// StrengthRequest asks for the strength of an arbitrary password.
type StrengthRequest struct {
	Password string   `json:"password"`
	Hints    []string `json:"hints,omitempty"`
}

// StrengthResponse carries the heuristic score, its tier and the localized label.
type StrengthResponse struct {
	Score    float64           `json:"score"`
	Tier     string            `json:"tier"`
	Label    string            `json:"label"`
	Estimate *EstimateResponse `json:"estimate,omitempty"`
}

// EstimateResponse is the advisory zxcvbn guessability estimate.
type EstimateResponse struct {
	Score     int     `json:"score"`
	Entropy   float64 `json:"entropy"`
	CrackTime string  `json:"crack_time"`
}
