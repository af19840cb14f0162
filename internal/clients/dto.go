package clients

type CreateClientRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	CPF     *string `json:"cpf,omitempty" validate:"omitempty,max=20"`
	CEP     *string `json:"cep,omitempty" validate:"omitempty,max=10"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=2"`
	Notes   *string `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	CPF     *string `json:"cpf,omitempty" validate:"omitempty,max=20"`
	CEP     *string `json:"cep,omitempty" validate:"omitempty,max=10"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=2"`
	Notes   *string `json:"notes,omitempty"`
}

type ListClientsRequest struct {
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
