package userservice

import "github.com/google/uuid"

// User модель пользователя из UserService
type User struct {
	ID           uuid.UUID  `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Role         string     `json:"role"`                    // citizen, officer, admin
	DepartmentID *uuid.UUID `json:"department_id,omitempty"` // только для officer
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
