package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"aichat_backend/internal/logger"
	"aichat_backend/internal/repositories"
	"aichat_backend/internal/services"
)

// Worker обрабатывает фоновые задачи. Ответ ассистента - заглушка:
// промпт к LLM здесь не собирается, записывается фиксированный текст.
type Worker struct {
	server        *asynq.Server
	conversations *repositories.ConversationRepository
	aiModels      *repositories.AIModelRepository
	messages      *services.MessageService
}

func NewWorker(
	redisURL string,
	conversations *repositories.ConversationRepository,
	aiModels *repositories.AIModelRepository,
	messages *services.MessageService,
) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis uri: %w", err)
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
	})

	return &Worker{
		server:        server,
		conversations: conversations,
		aiModels:      aiModels,
		messages:      messages,
	}, nil
}

// Run запускает воркер (блокирующий вызов)
func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAIReply, w.handleAIReply)
	return w.server.Run(mux)
}

// Shutdown останавливает воркер
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleAIReply(ctx context.Context, task *asynq.Task) error {
	var payload AIReplyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("ai reply: unmarshal payload: %w", err)
	}

	conversation, err := w.conversations.FindByID(ctx, payload.ConversationID)
	if err != nil {
		return fmt.Errorf("ai reply: load conversation: %w", err)
	}
	if conversation.AIModelID == nil {
		// Модель отвязали между постановкой и обработкой задачи
		logger.CtxWarn(ctx, "ai reply skipped: no model attached", "conversation_id", payload.ConversationID)
		return nil
	}

	aiModel, err := w.aiModels.FindByID(ctx, *conversation.AIModelID)
	if err != nil {
		return fmt.Errorf("ai reply: load model: %w", err)
	}

	content := fmt.Sprintf("[%s] This is a placeholder assistant response.", aiModel.Name)
	if _, err := w.messages.CreateAssistantMessage(ctx, conversation.ID, aiModel.ID, content); err != nil {
		return fmt.Errorf("ai reply: create message: %w", err)
	}

	logger.CtxInfo(ctx, "ai reply written", "conversation_id", conversation.ID, "model", aiModel.Name)
	return nil
}
