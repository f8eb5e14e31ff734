package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Cart error codes surfaced at checkout-session creation
const (
	// ErrCodeInvalidCartItem is used when a cart line fails normalization
	ErrCodeInvalidCartItem = "ERR_INVALID_CART_ITEM"
	// ErrCodeEmptyCart is used when the cart has no lines
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeQuantityExceeded is used when a line exceeds the per-item limit
	ErrCodeQuantityExceeded = "ERR_QUANTITY_EXCEEDED"
	// ErrCodePriceNotFound is used when no price exists for a scent/size pair
	ErrCodePriceNotFound = "ERR_PRICE_NOT_FOUND"
	// ErrCodeScentNotAllowed is used when allow-list mode rejects a scent
	ErrCodeScentNotAllowed = "ERR_SCENT_NOT_ALLOWED"
)

// Webhook error codes
const (
	// ErrCodeSignatureInvalid is used when event signature verification fails
	ErrCodeSignatureInvalid = "ERR_SIGNATURE_INVALID"
)

// External processor error codes
const (
	// ErrCodeUpstreamProcessor is used when the payment processor fails
	ErrCodeUpstreamProcessor = "ERR_UPSTREAM_PROCESSOR"
	// ErrCodeShippingProcessor is used when the shipping processor fails
	ErrCodeShippingProcessor = "ERR_SHIPPING_PROCESSOR"
	// ErrCodeNoRatesAvailable is used when no shipping rates are quoted
	ErrCodeNoRatesAvailable = "ERR_NO_RATES_AVAILABLE"
	// ErrCodeEmailProvider is used when the email provider fails
	ErrCodeEmailProvider = "ERR_EMAIL_PROVIDER"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Cart errors -> 400 Bad Request; the client can fix the cart and retry
	ErrCodeInvalidCartItem:  http.StatusBadRequest,
	ErrCodeEmptyCart:        http.StatusBadRequest,
	ErrCodeQuantityExceeded: http.StatusBadRequest,
	ErrCodePriceNotFound:    http.StatusBadRequest,
	ErrCodeScentNotAllowed:  http.StatusBadRequest,

	// Webhook errors -> 400 Bad Request so the event source records the failure
	ErrCodeSignatureInvalid: http.StatusBadRequest,

	// External processor errors -> 500; nothing the client did caused them
	ErrCodeUpstreamProcessor: http.StatusInternalServerError,
	ErrCodeShippingProcessor: http.StatusInternalServerError,
	ErrCodeNoRatesAvailable:  http.StatusInternalServerError,
	ErrCodeEmailProvider:     http.StatusInternalServerError,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire-format codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":          ErrCodeNotFound,
	"INVALID_INPUT":      ErrCodeInvalidInput,
	"INVALID_CART_ITEM":  ErrCodeInvalidCartItem,
	"EMPTY_CART":         ErrCodeEmptyCart,
	"QUANTITY_EXCEEDED":  ErrCodeQuantityExceeded,
	"PRICE_NOT_FOUND":    ErrCodePriceNotFound,
	"SCENT_NOT_ALLOWED":  ErrCodeScentNotAllowed,
	"UPSTREAM_PROCESSOR": ErrCodeUpstreamProcessor,
	"SIGNATURE_INVALID":  ErrCodeSignatureInvalid,
	"NO_RATES_AVAILABLE": ErrCodeNoRatesAvailable,
	"SHIPPING_PROCESSOR": ErrCodeShippingProcessor,
	"EMAIL_PROVIDER":     ErrCodeEmailProvider,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// If the code is already in the wire format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
