package request

// ByIDRequest is a common struct for endpoints keyed by a numeric ID path
// parameter.
type ByIDRequest struct {
	ID int `uri:"id" binding:"required,min=1"`
}
