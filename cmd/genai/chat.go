package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Tmtan95/GenAI-demo/internal/models"
)

func runChat(ctx context.Context, a *app) error {
	runChatLoop(ctx, a, newInputReader(os.Stdin))
	return nil
}

// runChatLoop holds a free-form conversation, carrying the full history so
// the model keeps context across turns.
func runChatLoop(ctx context.Context, a *app, in *inputReader) {
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	color.Cyan("\nWelcome to GenAI Chat! Type 'quit' to stop.")
	color.Cyan("What would you like to talk about?")

	var conversation []models.ChatMessage
	for {
		if ctx.Err() != nil {
			return
		}

		userPrompt("\nYou: ")
		line, ok := in.ReadLine(ctx)
		if !ok {
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if isQuit(input) {
			color.Green("\nGoodbye! Thanks for chatting!")
			return
		}

		conversation = append(conversation, models.ChatMessage{Role: models.RoleUser, Content: input})

		spinner := getSpinner("🤖 Thinking...")
		reply, err := a.chat.Chat(ctx, conversation)
		spinner.Finish()
		fmt.Print("\r")

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		assistantPrompt("\nAssistant: %s\n", reply)
		conversation = append(conversation, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	}
}
