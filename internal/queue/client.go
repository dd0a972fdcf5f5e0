package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"aichat_backend/internal/logger"
)

// Client ставит фоновые задачи в очередь поверх Redis
type Client struct {
	client *asynq.Client
}

// NewClient создает клиент очереди по Redis URL
func NewClient(redisURL string) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis uri: %w", err)
	}
	return &Client{client: asynq.NewClient(opt)}, nil
}

// EnqueueAIReply ставит задачу на ответ ассистента
func (c *Client) EnqueueAIReply(ctx context.Context, conversationID, triggerUserID string) error {
	task, err := NewAIReplyTask(AIReplyPayload{
		ConversationID: conversationID,
		TriggerUserID:  triggerUserID,
	})
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	logger.CtxInfo(ctx, "ai reply task enqueued", "task_id", info.ID, "conversation_id", conversationID)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
