package service

import "strings"

// TokenPrefix is the fixed leading part of every refresh credential
// string. The wire format is rt.<tokenId>.<secret>; tokenId is a UUID
// and the secret is unpadded URL-safe base64, so neither contains the
// delimiter.
const TokenPrefix = "rt"

const tokenDelimiter = "."

// FormatToken builds the credential string handed to the client. The
// plaintext secret appears only here; stores carry its bcrypt hash.
func FormatToken(tokenID, secret string) string {
	return TokenPrefix + tokenDelimiter + tokenID + tokenDelimiter + secret
}

// ParseToken splits a credential string into its tokenId and secret.
// Returns ErrInvalidToken unless the string is exactly three delimited
// parts with the rt prefix and non-empty tokenId and secret.
func ParseToken(token string) (tokenID, secret string, err error) {
	parts := strings.Split(token, tokenDelimiter)
	if len(parts) != 3 || parts[0] != TokenPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", ErrInvalidToken
	}
	return parts[1], parts[2], nil
}
