package dto

import "github.com/spendwise/backend/internal/domain/entity"

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryListResponse represents the category table in API responses.
type CategoryListResponse struct {
	Data []CategoryResponse `json:"data"`
}

// ToCategoryListResponse converts the category table to a CategoryListResponse DTO.
func ToCategoryListResponse(categories []entity.Category) CategoryListResponse {
	data := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		data[i] = CategoryResponse{
			ID:    string(c.ID),
			Name:  c.Name,
			Color: c.Color,
		}
	}
	return CategoryListResponse{Data: data}
}
