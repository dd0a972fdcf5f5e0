package appErrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Валидация
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"

	// Ресурсы
	CodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	CodeConversationNotFound ErrorCode = "CONVERSATION_NOT_FOUND"
	CodeMembershipNotFound   ErrorCode = "MEMBERSHIP_NOT_FOUND"
	CodeMessageNotFound      ErrorCode = "MESSAGE_NOT_FOUND"
	CodeModelNotFound        ErrorCode = "MODEL_NOT_FOUND"
	CodeUploadNotFound       ErrorCode = "UPLOAD_NOT_FOUND"

	// Членство в беседах
	CodeNoPermission      ErrorCode = "NO_PERMISSION"
	CodeAlreadyMember     ErrorCode = "ALREADY_MEMBER"
	CodeNotMember         ErrorCode = "NOT_MEMBER"
	CodeNoInvitation      ErrorCode = "NO_INVITATION"
	CodeCapacityExceeded  ErrorCode = "CAPACITY_EXCEEDED"
	CodeOwnerCannotLeave  ErrorCode = "OWNER_CANNOT_LEAVE"
	CodeCannotKickOwner   ErrorCode = "CANNOT_KICK_OWNER"
	CodeCannotModifyOwner ErrorCode = "CANNOT_MODIFY_OWNER"
	CodeInvalidNewOwner   ErrorCode = "INVALID_NEW_OWNER"

	// Бизнес-логика
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeCannotWrite        ErrorCode = "CANNOT_WRITE"
	CodeAlreadyFavorite    ErrorCode = "ALREADY_FAVORITE"

	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
)
