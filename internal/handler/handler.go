package handler

// Handler hosts the endpoints that belong to no single resource.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}
