// Package blog provides the authentication and authorization core of a
// blogging platform: JWT issuance and verification, per-request identity
// resolution, a declarative authorization guard, and Bun-backed repositories
// for accounts and content.
//
// Tokens and identity:
//   - TokenService signs HS256 JWTs that carry only the subject id. Role,
//     email, and username are re-read from storage on every request by
//     IdentityResolver, so role changes and account deletions take effect
//     immediately instead of waiting for token expiry.
//   - A token that verifies but points at a missing account fails with
//     ErrSubjectMissing, keeping "bad token" and "deleted account"
//     distinguishable for audit.
//
// Authorization:
//   - Guard is a pure decision table over (identity, action, resource owner).
//     Role-gated actions check the identity's current role; ownership-gated
//     actions compare the identity against the resource owner, with admins
//     exempt. Unknown actions are denied.
//   - ErrUnauthenticated and ErrForbidden stay distinct end to end and map to
//     401 and 403 respectively.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther and the
//     registration handler to describe login, impersonation, and registration
//     events. Sinks run best-effort (errors are logged) so you can forward to
//     a database or queue without blocking authentication.
package blog
