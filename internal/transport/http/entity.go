package httpt

import "phonebook/internal/entity"

type ErrorResponse struct {
	Error string `json:"error"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	APIVersion string `json:"api_version"`
}

// AddressRequest is the body of create and update calls.
type AddressRequest struct {
	Address *entity.AddressFields `json:"address"`
}
