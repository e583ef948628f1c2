package product

// CreateProductRequest carries the raw values of a new catalogue entry.
type CreateProductRequest struct {
	Name        string
	Price       string
	Category    string
	Description string
}
