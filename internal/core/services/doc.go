// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The chat pipeline is ChatService -> RetrievalService -> Generator, with
// SessionService recording each turn. IndexService writes what
// RetrievalService and SearchService read, through a VectorGuard so a
// refresh is never observed half done.
package services
