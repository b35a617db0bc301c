// @title MMEC College Chatbot API
// @version 1.0
// @description Chat, admin and college data endpoints for the MMEC information chatbot.

// @host localhost:5502
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import "college_chatbot_backend/internal/cli"

func main() {
	cli.Execute()
}
