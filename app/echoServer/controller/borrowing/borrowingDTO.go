package borrowing

type CreateBorrowReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

type TransitionReq struct {
	Action string `json:"action" validate:"required,oneof=approve decline return close write_off"`
}
