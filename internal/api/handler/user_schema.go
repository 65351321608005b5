package handler

type updateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin moderator user"`
}

type listUsersQuery struct {
	Skip  int64 `query:"skip"`
	Limit int64 `query:"limit"`
}
