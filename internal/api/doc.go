// Package api handles incoming HTTP requests, request validation and response
// formatting for the chat and flashcard endpoints. It acts as an adapter
// between the browser client and the application services, translating HTTP
// concerns to service calls and service errors to status codes.
//
// Every response uses the same JSON envelope: {"success":true,...} carrying
// one of content, data or flashcards on success, and
// {"success":false,"error":...,"trace_id":...} on failure.
package api
