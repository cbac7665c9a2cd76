package dto

import (
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

// UserDTO represents a user profile in API responses
type UserDTO struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Skill    string  `json:"skill"`
	Bio      *string `json:"bio,omitempty"`
	IsActive bool    `json:"is_active"`
}

// ProfileDTO is the owner's view of their profile
type ProfileDTO struct {
	UserDTO
	Email string `json:"email"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO          `json:"users"`
	Pagination utils.PageResponse `json:"pagination"`
}

// ToUserDTO converts a User model to its public shape
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		FullName: user.FullName,
		Skill:    user.Skill,
		Bio:      user.Bio,
		IsActive: user.IsActive,
	}
}

// ToProfileDTO converts a User model to the owner's view
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		UserDTO: ToUserDTO(user),
		Email:   user.Email,
	}
}

// ToUserListResponse converts a page of users to UserListResponse
func ToUserListResponse(users []models.User, nextToken *string) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}

	return UserListResponse{
		Users: items,
		Pagination: utils.PageResponse{
			Count:         len(items),
			NextPageToken: nextToken,
			HasMore:       nextToken != nil,
		},
	}
}
