package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeAIReply = "ai:reply"

// AIReplyPayload - задача на генерацию ответа ассистента в беседе
type AIReplyPayload struct {
	ConversationID string `json:"conversation_id"`
	TriggerUserID  string `json:"trigger_user_id"`
}

// NewAIReplyTask собирает asynq-задачу из payload
func NewAIReplyTask(p AIReplyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAIReply, data, asynq.MaxRetry(3)), nil
}
