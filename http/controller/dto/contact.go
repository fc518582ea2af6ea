package dto

type ContactRequestDTO struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Company string `json:"company" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=64"`
	Message string `json:"message" binding:"required,max=5000"`
}

type MarkHandledRequestDTO struct {
	Handled *bool `json:"handled" binding:"required"`
}
