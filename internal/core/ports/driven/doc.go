// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentSource: Lists and reads portfolio markdown files
//   - DocumentParser: Splits front matter from the markdown body
//   - TextChunker: Splits document text into overlapping chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Per-category and unified chunk collections
//   - LLMService: Chat completions for answers and follow-ups
//   - SessionStore: In-memory conversation sessions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: User-editable prompt templates. Without it, services
//     use the built-in templates.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
