package packets

// body for logging in
type LoginRequest struct {
	Subject  string `json:"subject"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
