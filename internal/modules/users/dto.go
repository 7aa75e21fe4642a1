package users

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	ImageURL *string `json:"image_url"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}
