// Package remote provides the HTTP client for the students API.
//
// # Endpoints
//
//	GET    /students/{id}   fetch one student
//	PATCH  /students/{id}   partial update, body holds the changed fields
//	DELETE /students/{id}   remove a student
//
// Every request carries "Authorization: Bearer <token>". The token is read
// once when the client is built and never refreshed; re-authentication is the
// caller's problem.
//
// # Errors
//
// Failures fall into three groups:
//
//   - ErrNotFound: the server answered 404. Match with errors.Is.
//   - *NetworkError: the request never produced a response (refused
//     connection, timeout, cancelled context).
//   - *APIError: any other status >= 400. Message holds the "message" field
//     of a JSON error body, or the trimmed body text.
//
// Message(err, fallback) extracts the server message for display. The client
// never retries on its own.
//
// # Testing
//
// StudentAPI is the seam for tests. The fakeapi package serves the same
// routes in-process and is used by this package's tests.
package remote
