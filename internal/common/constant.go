package common

const (
	// APIKeyHeaderName carries the project's public (anon) key on every
	// request to the identity and storage provider.
	APIKeyHeaderName = "apikey"

	// ClientInfoHeaderName identifies this client to the provider.
	ClientInfoHeaderName = "X-Client-Info"

	// ClientInfo is sent in ClientInfoHeaderName.
	ClientInfo = "venuehub-go/1.0"
)
