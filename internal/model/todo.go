package model

// Todo is a note as the server returns it. The id is server-assigned
// and never set or changed by the client.
type Todo struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewTodo is the create payload; the server assigns the id.
type NewTodo struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
