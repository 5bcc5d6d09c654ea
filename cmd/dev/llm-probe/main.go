package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/pkg/ollama"
)

// Small manual probe for the local Ollama install: checks health and runs one
// generation with the configured model.
func main() {
	var (
		baseURL = flag.String("url", "http://localhost:11434", "Ollama base URL")
		model   = flag.String("model", "llama3", "model name")
		prompt  = flag.String("prompt", "List three interview questions for a Go backend engineer.", "prompt to send")
	)
	flag.Parse()

	client, err := ollama.NewDefaultClient(config.OllamaConfig{
		BaseURL:                 *baseURL,
		Timeout:                 2 * time.Minute,
		CircuitFailureThreshold: 5,
		CircuitReset:            30 * time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Health(ctx); err != nil {
		log.Fatalf("ollama not reachable: %v", err)
	}

	res, err := client.Generate(ctx, *model, *prompt)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Text)
	fmt.Printf("meta: %+v\n", res.Meta)
}
