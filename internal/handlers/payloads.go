package handlers

import (
	"time"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/platform/httpx"
)

type addressPayload struct {
	FullName   string `json:"fullName,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type orderItemPayload struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Image       string  `json:"image,omitempty"`
}

type orderPayload struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	Items         []orderItemPayload `json:"items"`
	TotalAmount   float64            `json:"totalAmount"`
	Status        string             `json:"status"`
	StatusLabel   string             `json:"statusLabel"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentStatus string             `json:"paymentStatus"`
	Shipping      addressPayload     `json:"shippingAddress"`
	TrackingID    string             `json:"trackingId,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func toOrderPayload(order domain.Order) orderPayload {
	items := make([]orderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Image:       item.Image,
		})
	}
	return orderPayload{
		ID:            order.ID,
		UserID:        order.UserID,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		StatusLabel:   domain.StatusLabel(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Shipping: addressPayload{
			FullName:   order.Shipping.FullName,
			Phone:      order.Shipping.Phone,
			Street:     order.Shipping.Street,
			City:       order.Shipping.City,
			State:      order.Shipping.State,
			PostalCode: order.Shipping.PostalCode,
			Country:    order.Shipping.Country,
		},
		TrackingID: order.TrackingID,
		Notes:      order.Notes,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

type categorySummaryPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type categoryPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCategoryPayload(category domain.Category) categoryPayload {
	return categoryPayload{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

type productPayload struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Slug         string                  `json:"slug"`
	Description  string                  `json:"description,omitempty"`
	Price        float64                 `json:"price"`
	SalePrice    *float64                `json:"salePrice,omitempty"`
	Category     *categorySummaryPayload `json:"category,omitempty"`
	Images       []string                `json:"images,omitempty"`
	WeightOrSize string                  `json:"weightOrSize,omitempty"`
	Stock        int                     `json:"stock"`
	InStock      bool                    `json:"inStock"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

func toProductPayload(product domain.Product) productPayload {
	payload := productPayload{
		ID:           product.ID,
		Name:         product.Name,
		Slug:         product.Slug,
		Description:  product.Description,
		Price:        product.Price,
		SalePrice:    product.SalePrice,
		Images:       product.Images,
		WeightOrSize: product.WeightOrSize,
		Stock:        product.Stock,
		InStock:      product.Stock > 0,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
	if product.Category != nil {
		payload.Category = &categorySummaryPayload{
			ID:   product.Category.ID,
			Name: product.Category.Name,
			Slug: product.Category.Slug,
		}
	}
	return payload
}

// userPayload deliberately has no field for the password hash.
type userPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserPayload(user domain.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

type authPayload struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

func pageMeta[T any](page domain.Page[T]) httpx.Pagination {
	return httpx.Pagination{
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
		Pages: page.Pages(),
	}
}
