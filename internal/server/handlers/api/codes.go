package api

const (
	// Fixed details. Data endpoints other than /health echo the driver error instead.
	DetailDatabaseConnectionFailed = "Database connection failed"
	DetailNotFound                 = "Not Found"
	DetailMethodNotAllowed         = "Method Not Allowed"
	DetailRateLimited              = "Too Many Requests"
	DetailInternalError            = "Internal Server Error"
)
