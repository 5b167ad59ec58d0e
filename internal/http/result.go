package httpapi

import "realtor-site/internal/models"

const internalErrorMessage = "Internal server error"

// Envelope {success, data} wrapper used by the search, lead and admin routes.
// /api/properties answers with a bare array instead.
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// Ack success without a payload.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Page list payload with offset pagination.
type Page[T any] struct {
	Items      []T               `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

func Ok[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

func Done(message string) Ack {
	return Ack{Success: true, Message: message}
}

func NewPage[T any](items []T, total, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: models.NewPagination(total, limit, offset)}
}
