package dto

// RegisterRequestDTO is the signup payload.
type RegisterRequestDTO struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Name     string `json:"name" binding:"required" example:"Avid Reader"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequestDTO is the login payload.
type LoginRequestDTO struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required"`
}

// AuthResponseDTO carries the issued access token and the user profile.
type AuthResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO is the public view of a user account.
type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email" example:"reader@example.com"`
	Name      string `json:"name" example:"Avid Reader"`
	CreatedAt string `json:"created_at"`
}
