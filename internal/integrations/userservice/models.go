package userservice

// Patient модель пациента из UserService.
// Публичные поля профиля копируются в запись на приём как снапшот.
type Patient struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	DOB   *string `json:"dob,omitempty"` // YYYY-MM-DD
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
