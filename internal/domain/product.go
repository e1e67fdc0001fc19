package domain

// Product is a catalog entry. Price is in the smallest currency unit.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProductPatch carries the fields of a product update. A nil field is absent.
type ProductPatch struct {
	Name        *string `json:"name,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply overwrites the fields of p that are present and truthy in the patch.
// Empty strings and a zero price leave the current value untouched.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil && *pp.Name != "" {
		p.Name = *pp.Name
	}
	if pp.Price != nil && *pp.Price != 0 {
		p.Price = *pp.Price
	}
	if pp.Image != nil && *pp.Image != "" {
		p.Image = *pp.Image
	}
	if pp.Description != nil && *pp.Description != "" {
		p.Description = *pp.Description
	}
}
