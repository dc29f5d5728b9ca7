package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Mint builds a signed bearer token "<challengeID>:<issuedAt>:<signature>",
// where the signature is the lowercase-hex HMAC-SHA256 of
// "<challengeID>:<issuedAt>" under the service signing key. Minting is
// deterministic; uniqueness comes from challenge ids being single-use.
func Mint(key, challengeID string, issuedAt int64) string {
	message := challengeID + ":" + strconv.FormatInt(issuedAt, 10)
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return message + ":" + hex.EncodeToString(mac.Sum(nil))
}

// Split breaks a token into its challenge id, issue timestamp, and
// signature. ok is false when the token does not have the minted shape.
// Note this is a shape check only: validity is decided by store membership,
// not by re-verifying the signature.
func Split(tok string) (challengeID string, issuedAt int64, signature string, ok bool) {
	parts := strings.Split(tok, ":")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", 0, "", false
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, "", false
	}
	return parts[0], ts, parts[2], true
}
