package errs

// Markers for failures outside the booking rejection taxonomy
var (
	ErrDatabaseOperationFailed = New("database operation failed")
	ErrLockUnavailable         = New("date lock unavailable")
	ErrPublishFailed           = New("event publish failed")
)
