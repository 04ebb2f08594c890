package cart

type addItemRequest struct {
	ProductID        string            `json:"product_id" validate:"required,uuid4"`
	Quantity         int               `json:"quantity" validate:"omitempty,min=1,max=999"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
}

type updateItemRequest struct {
	Key      string `json:"key" validate:"required"`
	Quantity int    `json:"quantity"`
}

type setOpenRequest struct {
	Open bool `json:"open"`
}
