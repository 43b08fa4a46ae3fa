package response

type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Token string   `json:"token" validate:"required"`
	User  UserInfo `json:"user"`
}
