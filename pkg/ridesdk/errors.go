package ridesdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Default messages attached to adapted errors when the caller supplies none.
const (
	defaultClientErrorMessage = "the request contains bad syntax or cannot be fulfilled"
	defaultServerErrorMessage = "the server encountered an error or is unable to fulfil the request"
)

// ErrorDetails is a single structured complaint from the API about one
// request parameter.
type ErrorDetails struct {
	// Parameter is the offending request field, or the top-level error code
	// when the response only carried a description.
	Parameter string

	// Title is the human-readable explanation for this parameter.
	Title string
}

func (d ErrorDetails) String() string {
	return fmt.Sprintf("%s: %s", d.Parameter, d.Title)
}

// ClientError represents a 4xx API response. It retains every structured
// detail the response carried.
type ClientError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Code is the top-level error code from the response body
	Code string

	// Details holds every structured detail from the response
	Details []ErrorDetails

	// Message is a short description of the failed operation
	Message string
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, joinDetails(e.Details))
}

// ServerError represents a 5xx API response. At most one detail is retained.
type ServerError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Code is the top-level error code from the response body
	Code string

	// Detail is the first structured detail from the response, if any
	Detail *ErrorDetails

	// Message is a short description of the failed operation
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Detail == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Detail)
}

// UnknownHTTPError represents a response that could not be adapted into a
// typed error: the body was not JSON, or carried no top-level error code.
type UnknownHTTPError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// ContentType is the Content-Type header of the response
	ContentType string

	// Body is the raw response body
	Body []byte
}

// Error implements the error interface.
func (e *UnknownHTTPError) Error() string {
	return fmt.Sprintf("unexpected http response with status %d (%s)", e.StatusCode, e.ContentType)
}

// IllegalStateError indicates the SDK was used in a way that cannot proceed:
// a CSRF state mismatch, an unsupported grant type, a session without a
// credential.
type IllegalStateError struct {
	Message string
}

// Error implements the error interface.
func (e *IllegalStateError) Error() string {
	return e.Message
}

func illegalState(format string, args ...any) *IllegalStateError {
	return &IllegalStateError{Message: fmt.Sprintf(format, args...)}
}

// errorBody is the wire shape of an API error response. error_detail entries
// are decoded leniently: each is expected to be an object mapping one
// parameter name to one title, anything else is skipped.
type errorBody struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	ErrorDetail      []json.RawMessage `json:"error_detail"`
}

// decodeErrorBody extracts the error code and structured details from a
// response body. ok is false when the body is not JSON or has no top-level
// "error" field, in which case the caller should fall back to
// UnknownHTTPError.
func decodeErrorBody(body []byte) (code string, details []ErrorDetails, ok bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error == "" {
		return "", nil, false
	}

	for _, raw := range eb.ErrorDetail {
		var entry map[string]string
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		for parameter, title := range entry {
			details = append(details, ErrorDetails{Parameter: parameter, Title: title})
		}
	}

	// No structured details, fall back to the description keyed by the code.
	if len(details) == 0 && eb.ErrorDescription != "" {
		details = append(details, ErrorDetails{Parameter: eb.Error, Title: eb.ErrorDescription})
	}

	return eb.Error, details, true
}

// adaptHTTPError converts a non-2xx API response into a typed error. The
// response body is consumed and closed.
func adaptHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	code, details, ok := decodeErrorBody(body)
	if !ok {
		return &UnknownHTTPError{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        body,
		}
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Code:       code,
			Details:    details,
			Message:    defaultClientErrorMessage,
		}

	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		se := &ServerError{
			StatusCode: resp.StatusCode,
			Code:       code,
			Message:    defaultServerErrorMessage,
		}
		if len(details) > 0 {
			detail := details[0]
			se.Detail = &detail
		}
		return se
	}

	// Neither 4xx nor 5xx, nothing sensible to adapt to.
	return &UnknownHTTPError{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}
}

// clientErrorFromResponse builds a ClientError with the given message from a
// failed token operation, regardless of the exact status class. When the
// body cannot be decoded the result degrades to an UnknownHTTPError. The
// response body is consumed and closed.
func clientErrorFromResponse(resp *http.Response, message string) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	code, details, ok := decodeErrorBody(body)
	if !ok {
		return &UnknownHTTPError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}
	}

	return &ClientError{
		StatusCode: resp.StatusCode,
		Code:       code,
		Details:    details,
		Message:    message,
	}
}

func joinDetails(details []ErrorDetails) string {
	parts := make([]string, len(details))
	for i, d := range details {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}
