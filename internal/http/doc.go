// Package http exposes the dashboard session over a small JSON API.
//
// Every request is bound to a client through the `propdash_client` cookie,
// which ClientIdentity issues on first contact. The router serves:
//   - POST /login: body {"email","password"}. Responds 200 with the session
//     payload or 401 with error_code AUTH_INVALID_CREDENTIALS.
//   - POST /logout: clears the client's session. Responds 204.
//   - POST /switch-user: body {"user_id"}. Responds 200 with the session
//     payload or 404 with error_code USER_NOT_FOUND.
//   - GET /session: the current session payload {"user","role","data","loading"},
//     with null user and data when nobody is signed in.
//   - GET /demo-users: the accounts offered by the user switcher.
//   - GET /health: liveness plus an optional storage ping.
//
// DTOs live in session_handler.go.
package http
