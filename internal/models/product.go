package models

import "encoding/json"

// Category enumerates the catalog categories offered by the shop.
type Category string

const (
	CategoryCakes         Category = "cakes"
	CategoryFastFood      Category = "fastfood"
	CategoryCombos        Category = "combos"
	CategoryToys          Category = "toys"
	CategoryDrinks        Category = "drinks"
	CategoryPartySupplies Category = "party-supplies"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryCakes,
	CategoryFastFood,
	CategoryCombos,
	CategoryToys,
	CategoryDrinks,
	CategoryPartySupplies,
}

// Product is a catalog entry as persisted by the remote product service.
// ID is assigned by the server and never changes after creation.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`

	// Image is the legacy field some older records still carry.
	Image string `json:"image,omitempty"`
}

// DisplayImage returns the image reference to show for the product.
func (p Product) DisplayImage() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return p.Image
}

// MarshalJSON adds the resolved displayImage to the stored fields.
func (p Product) MarshalJSON() ([]byte, error) {
	type stored Product
	return json.Marshal(struct {
		stored
		DisplayImage string `json:"displayImage,omitempty"`
	}{stored: stored(p), DisplayImage: p.DisplayImage()})
}

// ProductDraft carries the editable fields of a product for create and update.
// Image is the generic form field; when set it takes precedence over ImageURL.
type ProductDraft struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// ResolvedImageURL returns the single image reference the draft should be
// persisted with.
func (d ProductDraft) ResolvedImageURL() string {
	if d.Image != "" {
		return d.Image
	}
	return d.ImageURL
}
