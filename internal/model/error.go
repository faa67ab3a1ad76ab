package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeMissingPaymentID     = "MISSING_PAYMENT_ID"
	ErrCodeAlreadyPaid          = "ALREADY_PAID"
	ErrCodeDuplicateTransaction = "DUPLICATE_TRANSACTION"
	ErrCodePaymentUnverified    = "PAYMENT_UNVERIFIED"
	ErrCodeProviderUnavailable  = "PROVIDER_UNAVAILABLE"
	ErrCodeAmountMismatch       = "AMOUNT_MISMATCH"
	ErrCodeOrderNotPaid         = "ORDER_NOT_PAID"
	ErrCodeAlreadyReviewed      = "ALREADY_REVIEWED"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation carrying a stable error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "No order items")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound         = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrMissingPaymentID     = NewDomainError(ErrCodeMissingPaymentID, "Payment ID not found")
	ErrAlreadyPaid          = NewDomainError(ErrCodeAlreadyPaid, "Order is already paid")
	ErrDuplicateTransaction = NewDomainError(ErrCodeDuplicateTransaction, "Transaction has been used before")
	ErrPaymentUnverified    = NewDomainError(ErrCodePaymentUnverified, "Payment could not be verified")
	ErrProviderUnavailable  = NewDomainError(ErrCodeProviderUnavailable, "Payment provider is unavailable")
	ErrAmountMismatch       = NewDomainError(ErrCodeAmountMismatch, "Paid amount does not match order total")
	ErrOrderNotPaid         = NewDomainError(ErrCodeOrderNotPaid, "Order has not been paid")
	ErrAlreadyReviewed      = NewDomainError(ErrCodeAlreadyReviewed, "Product already reviewed")
	ErrEmailTaken           = NewDomainError(ErrCodeEmailTaken, "Email address is already registered")
	ErrInvalidCredentials   = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
)
