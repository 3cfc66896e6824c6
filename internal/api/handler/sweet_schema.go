package handler

// sweetRequest carries the mutable fields of an inventory item for both the
// add and update routes.
type sweetRequest struct {
	Name     string  `json:"name"      validate:"required,max=100"`
	Category string  `json:"category"  validate:"required,max=100"`
	Price    float64 `json:"price"     validate:"required,gt=0"`
	Stock    int     `json:"stock"     validate:"gte=0"`
	ImageURL string  `json:"image_url" validate:"omitempty,max=500"`
}

type sweetResponse struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"image_url,omitempty"`
}
