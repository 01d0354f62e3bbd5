// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML settings in ~/.portfolio/config.toml
//   - PromptStore: editable prompt templates in ~/.portfolio/prompts
//   - LoadEnvFiles: .env loading ahead of settings resolution
package file
