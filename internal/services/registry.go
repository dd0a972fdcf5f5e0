package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         *AuthService
	ConversationService *ConversationService
	MembershipService   *MembershipService
	MessageService      *MessageService
	FavoriteService     *FavoriteService
	ModelCatalogService *ModelCatalogService
	UploadService       *UploadService
}
