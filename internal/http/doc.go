// Package http provides the HTTP handlers and middleware for the emoji
// schedule API.
//
// The router exposes the following endpoints:
//   - POST /auth/register: creates an account. Body: {"email","password"}.
//     Responds 201 with {"id","message"}, or 400 when the email is taken.
//   - POST /auth/login: exchanges credentials for a signed token. Responds
//     200 with {"token","userId","email"}, or 401 on a mismatch.
//   - GET /user-data, POST /user-data: fetch and replace the caller's
//     combined week schedule and emoji library snapshot.
//   - GET /schedules, POST /schedules, GET/PUT/DELETE /schedules/{id}:
//     schedule management exchanging the `scheduleDTO` payload defined in
//     schedule_handler.go. POST upserts by name unless "saveAsNew" is set.
//   - GET /schedules/public?search=, GET /schedules/public/{uniqueId}:
//     anonymous discovery of public schedules and resolution of share
//     links, filtered by record visibility.
//   - GET /emoji-libraries, POST /emoji-libraries,
//     GET/PUT/DELETE /emoji-libraries/{id} and the matching /public
//     routes: emoji library management mirroring the schedule surface.
//   - POST /merge-emoji-library: folds a visible source library into a
//     target owned by the caller. Body: {"sourceId","targetId"}.
//
// Missing credentials yield 401; an invalid or expired token yields 403,
// which clients treat as a signal to discard their stored session.
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
