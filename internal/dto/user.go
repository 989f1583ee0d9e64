package dto

import "time"

type AppRoleInput struct {
	AppName string `json:"app_name" binding:"required"`
	Role    string `json:"role" binding:"required"`
}

type CreateUserRequest struct {
	Name  string         `json:"name" binding:"required,min=1,max=255"`
	Email string         `json:"email" binding:"required,email"`
	Apps  []string       `json:"apps"`
	Roles []AppRoleInput `json:"roles"`
}

type UpdateUserRequest struct {
	Name  *string        `json:"name" binding:"omitempty,min=1,max=255"`
	Email *string        `json:"email" binding:"omitempty,email"`
	Apps  []string       `json:"apps"`
	Roles []AppRoleInput `json:"roles"`
}

// UserResponse flattens roles into the "app-role" strings the admin
// table renders.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Apps      []string  `json:"apps"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
}
