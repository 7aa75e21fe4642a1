package borrow

type CreateFromRequestBody struct {
	ReturnDays int `json:"return_days"`
}
