package ports

// PasswordHasher is the narrow capability for credential hashing. Swapping
// the underlying algorithm must not change this contract.
type PasswordHasher interface {
	// Hash salts and hashes the secret. The output is opaque and safe to store.
	Hash(secret string) (string, error)
	// Verify reports whether secret matches the stored hash. A malformed hash
	// is an ordinary non-match, never an error.
	Verify(secret, hash string) bool
}
