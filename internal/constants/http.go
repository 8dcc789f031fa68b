package constants

const (
	APIFieldRequestID = "request_id"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	HeaderAccept                    = "Accept"
	HeaderAccessControlAllowHeaders = "Access-Control-Allow-Headers"
	HeaderAuthorization             = "Authorization"
	HeaderContentDigest             = "Content-Digest"
	HeaderContentLength             = "Content-Length"
	HeaderContentType               = "Content-Type"
	HeaderOrigin                    = "Origin"
	HeaderXAPIKey                   = "X-API-Key" // #nosec G101
	HeaderXRequestID                = "X-Request-ID"
	HeaderXRequestedWith            = "X-Requested-With"
)
