package telegram

// Update is a single incoming Bot API update
type Update struct {
	Message  *Message `json:"message"`
	UpdateID int64    `json:"update_id"`
}

// Message is an incoming chat message
type Message struct {
	Text string `json:"text"`
	Chat Chat   `json:"chat"`
}

// Chat identifies the chat a message belongs to
type Chat struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// User is a Bot API user (the bot itself, for getMe)
type User struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// Command is a bot command registration entry
type Command struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}
