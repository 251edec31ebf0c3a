package requestresponse

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Login    string `json:"login" example:"newuser123"`
	Password string `json:"password" example:"P@ssw0rd!"`
}

// RegisterResponse : успешный ответ, сразу содержит пару токенов
type RegisterResponse struct {
	Response RegisterData `json:"response"`
}

type RegisterData struct {
	Login        string `json:"login"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Text string `json:"text" example:"for example: invalid login or password"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// UserResponse : успешный ответ с данными пользователя
type UserResponse struct {
	Data struct {
		UUID  string `json:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
		Login string `json:"login" example:"analyst1"`
	} `json:"data"`
}
