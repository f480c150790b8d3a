package credentials

// Cookie names of the stored token pair. Both are scoped to CookiePath.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	CookiePath         = "/"
)

// TokenPair identifies a session with the authentication service.
// Both values are opaque to the console.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (p TokenPair) IsEmpty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Store persists the caller's token pair between requests
type Store interface {
	Load() TokenPair
	Save(pair TokenPair)
	// Clear removes both stored tokens
	Clear()
}
