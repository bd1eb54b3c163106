// Package agentkit is an embeddable Go library implementing a
// streaming Reason-Act (ReAct) control loop against an LLM endpoint,
// with tool dispatch.
//
// # Quick Start
//
// Build an Agent against an Anthropic or OpenAI adapter and call
// Reply or Stream:
//
//	a, err := agent.New(
//	    agent.WithAdapter(anthropic.New(anthropic.Config{APIKey: key, Model: "claude-3-5-sonnet-latest"})),
//	    agent.WithTool(weatherSchema, weatherFn),
//	    agent.WithSystemPrompt("You are a helpful assistant."),
//	)
//	reply, err := a.Reply(ctx, msg.NewText(msg.RoleUser, "user", "what's the weather in Paris?"))
//
// # Architecture
//
// A Msg carries exactly one ContentBlock (Text, Thinking, ToolUse,
// ToolResult, Image, Audio, Video). Memory holds the append-only
// conversation log a Formatter converts to a provider's wire shape; a
// model.Adapter streams ChatResponse chunks back; the toolcall package
// reassembles streamed ToolUse fragments into canonical calls; the
// react package drives Reasoning(k) -> Acting(k) -> Reasoning(k+1) or
// Terminated against a tool.Registry and tool.Dispatcher.
//
// # Configuration
//
// An Agent can also be built from YAML via config.LoadConfig, which
// follows the same SetDefaults()/Validate() pattern throughout.
package agentkit
