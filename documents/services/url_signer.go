package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// URLSigner produces time-limited download links for stored files.
// Signatures cover the storage key and the expiry so neither can be
// swapped after signing.
type URLSigner struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewURLSigner(secret, baseURL string, ttl time.Duration) *URLSigner {
	return &URLSigner{
		secret:  []byte(secret),
		baseURL: baseURL,
		ttl:     ttl,
	}
}

func (s *URLSigner) sign(storageKey string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", storageKey, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedURL returns a download URL valid until the signer's TTL elapses.
func (s *URLSigner) SignedURL(storageKey string) string {
	expires := time.Now().Add(s.ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.sign(storageKey, expires))
	return fmt.Sprintf("%s/api/v1/files/download/%s?%s", s.baseURL, url.PathEscape(storageKey), q.Encode())
}

// Verify checks the signature and expiry for a download request.
func (s *URLSigner) Verify(storageKey, expiresParam, signature string) error {
	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry parameter")
	}
	if time.Now().Unix() > expires {
		return fmt.Errorf("download link has expired")
	}
	expected := s.sign(storageKey, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}
