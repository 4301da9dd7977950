// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

// Package planner generates marketing plan drafts for a client using the
// OpenAI chat completion API.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Draft is a generated plan proposal. It is never persisted by this package;
// the caller decides what to store.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Strategies  []string `json:"strategies"`
	Channels    []string `json:"channels"`
}

// Request describes the client context for a generation. Channels lists the
// marketing channels the plan should concentrate on; empty means no
// preference.
type Request struct {
	BusinessName string
	Industry     string
	Goals        string
	Budget       string
	Channels     []string
}

// Generator produces plan drafts.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Draft, error)
}

// OpenAIGenerator implements Generator against the OpenAI API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator. An empty model falls back to
// DefaultModel.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

const systemPrompt = `You are a marketing strategist at a digital agency.
Respond with a single JSON object and nothing else, using exactly these keys:
"title" (string), "description" (string, 2-3 sentences),
"strategies" (array of 4-6 short actionable strings),
"channels" (array drawn from: social_media, email, content, seo, ppc).`

// Generate calls the chat completion API and parses the JSON reply.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Draft, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(req)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty response")
	}

	draft, err := parseDraft(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a marketing plan for %q", req.BusinessName)
	if req.Industry != "" {
		fmt.Fprintf(&b, " in the %s industry", req.Industry)
	}
	b.WriteString(".")
	if req.Goals != "" {
		fmt.Fprintf(&b, " Goals: %s.", req.Goals)
	}
	if req.Budget != "" {
		fmt.Fprintf(&b, " Monthly budget: %s.", req.Budget)
	}
	if len(req.Channels) > 0 {
		fmt.Fprintf(&b, " Concentrate on these channels: %s.", strings.Join(req.Channels, ", "))
	}
	return b.String()
}

// parseDraft tolerates markdown code fences around the JSON body, which some
// models emit despite instructions.
func parseDraft(raw string) (*Draft, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("parse draft: %w", err)
	}
	if draft.Title == "" || len(draft.Strategies) == 0 {
		return nil, fmt.Errorf("parse draft: missing required fields")
	}
	return &draft, nil
}
