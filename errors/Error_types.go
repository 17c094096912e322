package errors

var (
	ErrUnknown          = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument  = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound         = New(ERR_NOT_FOUND, "not found")
	ErrProcessing       = New(ERR_PROCESSING, "error processing")
	ErrConfiguration    = New(ERR_CONFIGURATION, "configuration error")
	ErrError            = New(ERR_ERROR, "generic error")
	ErrStoreAccess      = New(ERR_STORE_ACCESS, "store access error")
	ErrDecodeWarning    = New(ERR_DECODE_WARNING, "record could not be decoded")
	ErrKeyNotFound      = New(ERR_KEY_NOT_FOUND, "no private key found")
	ErrInvalidKeyLength = New(ERR_INVALID_KEY_LENGTH, "invalid key length")
	ErrInvalidKey       = New(ERR_INVALID_KEY, "invalid key")
	ErrIO               = New(ERR_IO, "i/o error")
	ErrChecksum         = New(ERR_CHECKSUM, "checksum mismatch")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewStoreAccessError(message string, params ...interface{}) error {
	return New(ERR_STORE_ACCESS, message, params...)
}
func NewDecodeWarning(message string, params ...interface{}) error {
	return New(ERR_DECODE_WARNING, message, params...)
}
func NewKeyNotFoundError(message string, params ...interface{}) error {
	return New(ERR_KEY_NOT_FOUND, message, params...)
}
func NewInvalidKeyLengthError(message string, params ...interface{}) error {
	return New(ERR_INVALID_KEY_LENGTH, message, params...)
}
func NewInvalidKeyError(message string, params ...interface{}) error {
	return New(ERR_INVALID_KEY, message, params...)
}
func NewIOError(message string, params ...interface{}) error {
	return New(ERR_IO, message, params...)
}
func NewChecksumError(message string, params ...interface{}) error {
	return New(ERR_CHECKSUM, message, params...)
}
