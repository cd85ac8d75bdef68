package models

// CartItem is one service line in a customer's cart. Name, price and
// description are copied from the catalog when the line is created.
type CartItem struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon,omitempty"`
	Category    Category `json:"category,omitempty"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
}

// CartState is the persisted cart document.
type CartState struct {
	Items []CartItem `json:"items"`
}

// CheckoutInput holds the customer details collected at cart checkout.
type CheckoutInput struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	Date                string `json:"date"`
	Time                string `json:"time"`
	SpecialInstructions string `json:"specialInstructions"`
}
