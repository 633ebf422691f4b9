package models

type RegisterRequest struct {
	Name     string `json:"nombre" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"passwordActual" validate:"required"`
	NewPassword     string `json:"passwordNuevo" validate:"required,min=6,max=72"`
}

type UpdateProfileRequest struct {
	Name *string `json:"nombre" validate:"omitempty,min=2,max=50"`
}

type AuthResponse struct {
	User  User   `json:"usuario"`
	Token string `json:"token"`
}
