package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ConversationHandler *ConversationHandler
	MembershipHandler   *MembershipHandler
	MessageHandler      *MessageHandler
	FavoriteHandler     *FavoriteHandler
	ModelHandler        *ModelHandler
	UploadHandler       *UploadHandler
}
