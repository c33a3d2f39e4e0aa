package dto

type SignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Aadhaar      string `json:"aadhaar"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	FamilySize   int    `json:"familySize"`
	PropertyType string `json:"propertyType"`
	Photo        string `json:"photo"`
}

// LoginRequest keeps the email/password/role login contract. Role defaults
// to "user" when empty.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserProfile struct {
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Aadhaar      string   `json:"aadhaar"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	FamilySize   int      `json:"familySize"`
	PropertyType string   `json:"propertyType"`
	Photo        string   `json:"photo"`
	Badges       []string `json:"badges"`
	Points       int      `json:"points"`
}

type AuthResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	AccessToken string      `json:"accessToken"`
	User        UserProfile `json:"user"`
}

type SignupResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Cache     string `json:"cache"`
}
