package dto

import "github.com/google/uuid"

type PresignUploadRequestDTO struct {
	Name      string     `json:"name" binding:"max=255"`
	MimeType  string     `json:"mime_type" binding:"required"`
	SizeBytes *int64     `json:"size_bytes" binding:"omitempty,gt=0"`
	OwnerID   *uuid.UUID `json:"owner_id"`
}

type ConfirmUploadRequestDTO struct {
	PhotoID   uuid.UUID `json:"photo_id" binding:"required"`
	Key       string    `json:"key" binding:"required"`
	Name      string    `json:"name" binding:"max=255"`
	SizeBytes int64     `json:"size_bytes" binding:"required,gt=0"`
	MimeType  string    `json:"mime_type" binding:"required"`
}

type RenameMediaRequestDTO struct {
	Name string `json:"name" binding:"required,max=255"`
}

type IDsRequestDTO struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}
