package types

import "voxchat/voxchat/sources/psql/models"

type ChatRequest struct {
	Prompt string `json:"prompt"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type MessagesResponse struct {
	Messages []models.Message `json:"messages"`
}

// SocketAuth is the first frame a chat socket client sends.
type SocketAuth struct {
	Token string `json:"token"`
}

// SocketReply carries either a response or an error, never both.
type SocketReply struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}
