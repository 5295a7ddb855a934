package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyAccountRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SetNewPasswordRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Token     string `json:"token" validate:"required"`
	Password1 string `json:"password1" validate:"required,min=6"`
	Password2 string `json:"password2" validate:"required,min=6"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}
