// Package errs defines the error kinds handlers report to API clients.
//
// Services return *Error values; the HTTP layer turns them into a status
// code and a JSON body in one place.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies an error for status mapping
type Kind string

const (
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInvalidInput Kind = "INVALID_INPUT"
	KindConflict     Kind = "CONFLICT"
	KindStoreFailure Kind = "STORE_FAILURE"
	KindInternal     Kind = "INTERNAL"
)

// User-facing messages
const (
	MsgUnauthenticated     = "Não autenticado"
	MsgInvalidContent      = "Conteúdo inválido"
	MsgInvalidUsername     = "Nome de usuário inválido"
	MsgProfileExists       = "Perfil já existe"
	MsgUsernameTaken       = "Nome de usuário já está em uso"
	MsgListCommentsFailed  = "Erro ao buscar comentários"
	MsgProfileLookupFailed = "Erro ao verificar perfil"
	MsgInternalServerError = "Erro interno do servidor"
)

// FieldError is a validation failure on a single request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified, client-presentable error.
// Message is safe to show; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized reports a request without a resolvable caller
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: MsgUnauthenticated}
}

// InvalidInput reports a body that failed validation
func InvalidInput(message string, fields []FieldError) *Error {
	return &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: message, Fields: fields}
}

// Conflict reports a uniqueness violation detected before writing
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusBadRequest, Message: message}
}

// StoreWrite reports a write rejected by the store. The store's own
// message is passed through to the client.
func StoreWrite(message string, err error) *Error {
	return &Error{Kind: KindStoreFailure, Status: http.StatusBadRequest, Message: message, Err: err}
}

// StoreRead reports a failed read. Only the generic message is exposed.
func StoreRead(message string, err error) *Error {
	return &Error{Kind: KindStoreFailure, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// Internal reports any other unexpected failure
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: MsgInternalServerError, Err: err}
}

// From returns err as an *Error, classifying unknown errors as Internal
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
