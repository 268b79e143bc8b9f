package types

// WishlistProduct is the denormalized product payload nested in a wishlist entry.
type WishlistProduct struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Image        string `json:"image,omitempty"`
	SKU          string `json:"sku,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	BrandName    string `json:"brand_name,omitempty"`
}

// WishlistItem is a server-shaped wishlist entry.
type WishlistItem struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	ProductID  string          `json:"product_id"`
	Product    WishlistProduct `json:"product"`
}
