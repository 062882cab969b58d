package main

import "github.com/pageza/recipe-chatbot/backend/internal/cli"

func main() {
	cli.Execute()
}
