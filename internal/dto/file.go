package dto

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AuthToken string `json:"auth-token"`
}

type RenameRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
}

type FileResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}
