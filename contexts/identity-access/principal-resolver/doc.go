// Package principalresolver implements the Principal Resolver inside the
// identity-access context.
//
// The module turns an Authorization header into an authenticated principal:
// it verifies the bearer token, resolves the owning user and exposes the
// principal's identity and staff flag to the rest of the platform. It never
// issues sessions; token minting exists only for tooling and tests.
package principalresolver
