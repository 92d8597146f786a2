package models

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	BaseUUIDModel
	ConversationID string `gorm:"type:varchar(64);index" json:"conversationId" bson:"conversation_id"`
	Role           string `gorm:"type:varchar(16)"       json:"role"           bson:"role"`
	Content        string `gorm:"type:text"              json:"content"        bson:"content"`
}

type ChatConversation struct {
	BaseUUIDModel
	TruckMake string        `gorm:"type:varchar(255)" json:"truckMake" bson:"truck_make"`
	Title     string        `gorm:"type:varchar(255)" json:"title"     bson:"title"`
	Messages  []ChatMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty" bson:"-"`
}

// ChatRequest is the wire shape of POST /api/ai/chat.
type ChatRequest struct {
	Messages       []ChatTurn `json:"messages"`
	ConversationID string     `json:"conversationId,omitempty"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply couples the assistant text with the provider that produced it,
// under the same fallback semantics as Diagnosis.
type ChatReply struct {
	Reply        string `json:"reply"`
	Provider     string `json:"provider"`
	FallbackUsed bool   `json:"fallbackUsed"`
}
