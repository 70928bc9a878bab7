package book

type CreateBookReq struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Image  string `json:"image" validate:"omitempty,url"`
	Stock  int64  `json:"stock" validate:"gte=0"`
}

type UpdateBookReq struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Image  string `json:"image" validate:"omitempty,url"`
	Stock  int64  `json:"stock" validate:"gte=0"`
}

type AdjustStockReq struct {
	Delta int64 `json:"delta" validate:"required"`
}
