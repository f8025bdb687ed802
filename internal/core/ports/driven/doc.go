// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - LLMService: One configured model endpoint. The candidate generator
//     fans out over a pool of these.
//   - KnowledgeStore: Durable concept and combination persistence. The
//     resolver's commit step is the sole writer path.
//
// # Optional Interfaces
//
//   - PromptStore: User-customisable prompt templates. When nil, services
//     use embedded defaults.
//   - ConfigStore: Application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
