package response

import (
	"encoding/json"
	"mime"
	"net/http"
	"seva/shared/constant"
	"seva/shared/failure"
	"seva/shared/logger"
	"strconv"
)

// Envelope is the uniform body of every API response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Envelope[any]{Success: isSuccess(code), Message: message})
}

func WithJSON(writer http.ResponseWriter, code int, message string, payload any) {
	write(writer, code, Envelope[any]{Success: isSuccess(code), Message: message, Data: &payload})
}

// WithError maps err to its failure code. Unclassified errors are logged and answered with a generic message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	message := err.Error()

	if code == http.StatusInternalServerError {
		logger.ErrorWithStack(err)

		message = http.StatusText(http.StatusInternalServerError)
	}

	write(writer, code, Envelope[any]{Success: false, Message: message})
}

// WithFile sends content as a download named fileName.
func WithFile(writer http.ResponseWriter, contentType, fileName string, content []byte) {
	header := writer.Header()
	header.Set(constant.RequestHeaderContentType, contentType)
	header.Set(constant.RequestHeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	header.Set("Content-Length", strconv.Itoa(len(content)))
	writer.WriteHeader(http.StatusOK)

	if _, err := writer.Write(content); err != nil {
		logger.ErrorWithStack(err)
	}
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func write(writer http.ResponseWriter, code int, payload Envelope[any]) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		code = http.StatusInternalServerError
		body, _ = json.Marshal(Envelope[any]{Message: http.StatusText(code)})
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
