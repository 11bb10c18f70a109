package domain

type Role string

const (
	RoleInvestor Role = "investor"
	RoleGuest    Role = "guest"
	RoleAgent    Role = "agent"
	RoleHandyman Role = "handyman"
)

// Session is the caller's identity for one request. Capabilities are resolved
// once when the session is loaded and are not re-derived from the role string.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	AccessToken string `json:"-"`

	canPayFromWallet bool
}

// NewSession resolves capabilities for the given role
func NewSession(userID, email string, role Role, accessToken string) *Session {
	return &Session{
		UserID:           userID,
		Email:            email,
		Role:             role,
		AccessToken:      accessToken,
		canPayFromWallet: role == RoleInvestor,
	}
}

// Authenticated reports whether the session carries a user and a token
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != "" && s.AccessToken != ""
}

// CanPayFromWallet reports whether wallet funds may be used by this session.
// Wallet balances come from investment payouts, so only investors hold one.
func (s *Session) CanPayFromWallet() bool {
	return s != nil && s.canPayFromWallet
}
