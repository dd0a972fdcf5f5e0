package email

import (
	"context"
	"fmt"

	"aichat_backend/internal/logger"
	"aichat_backend/internal/repositories"
)

// InviteNotifier шлет письмо приглашенному пользователю.
// Отправка best-effort: ошибка логируется и не валит приглашение.
type InviteNotifier struct {
	sender *EmailSender
	users  *repositories.UserRepository
}

func NewInviteNotifier(sender *EmailSender, users *repositories.UserRepository) *InviteNotifier {
	return &InviteNotifier{
		sender: sender,
		users:  users,
	}
}

// NotifyInvite отправляет уведомление о приглашении в беседу
func (n *InviteNotifier) NotifyInvite(invitedUserID, inviterUserID, conversationTitle string) {
	go func() {
		ctx := context.Background()

		invited, err := n.users.FindByID(ctx, invitedUserID)
		if err != nil || invited == nil {
			logger.Warn("invite notification: invited user not found", "user_id", invitedUserID)
			return
		}

		inviterName := "Someone"
		if inviter, err := n.users.FindByID(ctx, inviterUserID); err == nil && inviter != nil {
			inviterName = inviter.DisplayName
		}

		subject := fmt.Sprintf("%s invited you to \"%s\"", inviterName, conversationTitle)
		body := fmt.Sprintf(
			"<p>%s invited you to join the conversation <b>%s</b>.</p><p>Open the app to accept the invitation.</p>",
			inviterName, conversationTitle,
		)

		if err := n.sender.Send(invited.Email, subject, body); err != nil {
			logger.WithError(err).Warn("failed to send invite notification", "user_id", invitedUserID)
		}
	}()
}
