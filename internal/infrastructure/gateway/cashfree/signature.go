package cashfree

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature recomputes the webhook signature as
// base64(HMAC-SHA256(secret, timestamp || rawBody)) and compares it against
// the provided value in constant time.
func (c *Client) VerifySignature(rawBody []byte, timestamp, signature string) bool {
	if timestamp == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.cfg.SecretKey))
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
