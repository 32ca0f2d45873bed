package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default true) and explicit false.
type GenerateRequest struct {
	Length    int   `json:"length"`
	Uppercase *bool `json:"uppercase"`
	Lowercase *bool `json:"lowercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`

	// Mode is one of "easy-to-say", "easy-to-read" or "all-characters" (default).
	Mode string `json:"mode"`

	// ExcludeAmbiguous forces removal of O, 0, l, 1 and | regardless of Mode.
	ExcludeAmbiguous *bool `json:"exclude_ambiguous"`

	// Count is the number of independent passwords to generate (default 1).
	Count int `json:"count"`
}

// GenerateResponse represents a password generation response.
// Passwords is only populated when more than one password was requested.
type GenerateResponse struct {
	Password     string   `json:"password"`
	Passwords    []string `json:"passwords,omitempty"`
	Length       int      `json:"length"`
	AlphabetSize int      `json:"alphabet_size"`
}
