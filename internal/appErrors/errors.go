package appErrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// AppError - основная структура ошибки приложения
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Конструктор
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// С цепочкой ошибок
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// Вспомогательные методы
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Для маршалинга в JSON
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Предопределенные ошибки
var (
	// Аутентификация
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
	ErrWeakPassword       = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)

	// Пользователи
	ErrUserNotFound       = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)

	// Беседы и членство
	ErrConversationNotFound = New(CodeConversationNotFound, "Conversation not found", http.StatusNotFound)
	ErrMembershipNotFound   = New(CodeMembershipNotFound, "Membership not found", http.StatusNotFound)
	ErrNoPermission         = New(CodeNoPermission, "No permission for this action", http.StatusForbidden)
	ErrAlreadyMember        = New(CodeAlreadyMember, "User is already an active member", http.StatusConflict)
	ErrNotMember            = New(CodeNotMember, "User is not a member of this conversation", http.StatusBadRequest)
	ErrNoInvitation         = New(CodeNoInvitation, "No invitation for this conversation", http.StatusNotFound)
	ErrCapacityExceeded     = New(CodeCapacityExceeded, "Conversation is full", http.StatusConflict)
	ErrOwnerCannotLeave     = New(CodeOwnerCannotLeave, "Owner must transfer ownership before leaving", http.StatusBadRequest)
	ErrCannotKickOwner      = New(CodeCannotKickOwner, "Owner cannot be kicked", http.StatusBadRequest)
	ErrCannotModifyOwner    = New(CodeCannotModifyOwner, "Owner permissions cannot be modified by others", http.StatusBadRequest)
	ErrInvalidNewOwner      = New(CodeInvalidNewOwner, "New owner must be an active member", http.StatusBadRequest)
	ErrCannotWrite          = New(CodeCannotWrite, "Write access to this conversation denied", http.StatusForbidden)

	// Сообщения и каталог
	ErrMessageNotFound = New(CodeMessageNotFound, "Message not found", http.StatusNotFound)
	ErrModelNotFound   = New(CodeModelNotFound, "AI model not found", http.StatusNotFound)
	ErrUploadNotFound  = New(CodeUploadNotFound, "Upload not found", http.StatusNotFound)
	ErrAlreadyFavorite = New(CodeAlreadyFavorite, "Conversation is already in favorites", http.StatusConflict)
)

// Функции-помощники для создания ошибок с деталями
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "Validation failed", http.StatusBadRequest).WithDetails(details)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func DatabaseError(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "Database operation failed", http.StatusInternalServerError)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}
