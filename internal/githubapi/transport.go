package githubapi

import (
	"context"
	"net/http"
)

type responseStatusContextKey struct{}

// responseStatus receives the HTTP status code of the last response observed for a request context.
type responseStatus struct {
	statusCode int
}

func withResponseStatus(executionContext context.Context) (context.Context, *responseStatus) {
	status := &responseStatus{}
	return context.WithValue(executionContext, responseStatusContextKey{}, status), status
}

// statusRecordingTransport copies response status codes into the responseStatus carried by the request context.
type statusRecordingTransport struct {
	base http.RoundTripper
}

func (transport statusRecordingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	base := transport.base
	if base == nil {
		base = http.DefaultTransport
	}

	response, roundTripError := base.RoundTrip(request)
	if response != nil {
		if status, ok := request.Context().Value(responseStatusContextKey{}).(*responseStatus); ok && status != nil {
			status.statusCode = response.StatusCode
		}
	}
	return response, roundTripError
}
