package shopsdk

import (
	"net/url"
	"strconv"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

// ============================================================================
// Auth
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`

	// OTP is the code sent with purpose OTPPurposeRegister.
	OTP string `json:"otp,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	Token       string       `json:"token,omitempty"`
	TokenType   string       `json:"tokenType,omitempty"`
	User        *domain.User `json:"user,omitempty"`
}

// BearerToken returns whichever token field the backend filled in.
func (r AuthResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

const (
	OTPPurposeRegister      = "REGISTER"
	OTPPurposeResetPassword = "RESET_PASSWORD"
)

type OTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

type OTPVerifyRequest struct {
	Email   string `json:"email"`
	OTP     string `json:"otp"`
	Purpose string `json:"purpose"`
}

type OTPVerifyResponse struct {
	Verified   bool   `json:"verified"`
	ResetToken string `json:"resetToken,omitempty"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse is the body of calls that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Profile
// ============================================================================

type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type TOTPEnrollment struct {
	OTPAuthURL string `json:"otpauthUrl"`
}

// ============================================================================
// Catalogue
// ============================================================================

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	SalePrice   float64  `json:"salePrice,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock"`
}

// EffectivePrice is the sale price when one is set.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}

// ProductQuery filters the product listing. Zero fields are omitted.
type ProductQuery struct {
	Keyword    string
	CategoryID string
	MinPrice   float64
	MaxPrice   float64
	Size       string
	Sort       string
	Page       int
	PageSize   int
}

func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.CategoryID != "" {
		v.Set("categoryId", q.CategoryID)
	}
	if q.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.Size != "" {
		v.Set("size", q.Size)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ============================================================================
// Cart, orders and payments
// ============================================================================

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	StoreID   string `json:"storeId,omitempty"`
}

const (
	PaymentCOD   = "COD"
	PaymentVNPay = "VNPAY"
)

type CreateOrderRequest struct {
	Items           []domain.CartItem `json:"items"`
	AddressID       string            `json:"addressId,omitempty"`
	ShippingAddress *domain.Address   `json:"shippingAddress,omitempty"`
	PaymentMethod   string            `json:"paymentMethod"`
	Note            string            `json:"note,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	Items           []OrderItem     `json:"items"`
	Total           float64         `json:"total"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus,omitempty"`
	ShippingAddress *domain.Address `json:"shippingAddress,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type PaymentURL struct {
	PaymentURL string `json:"paymentUrl"`
}
