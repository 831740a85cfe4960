package imagekit

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_AuthParams(t *testing.T) {
	privateKey := "private_test_key"
	client := New(privateKey, "public_test_key", "https://ik.imagekit.io/testing")

	params := client.AuthParams()

	assert.NotEmpty(t, params.Token)
	assert.Greater(t, params.Expire, time.Now().Unix())
	assert.LessOrEqual(t, params.Expire, time.Now().Add(authTokenValidity).Unix())

	// Signature must be HMAC-SHA1(token+expire) keyed by the private key,
	// hex encoded, per ImageKit's client-upload contract.
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(params.Token + strconv.FormatInt(params.Expire, 10)))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), params.Signature)
}

func TestClient_AuthParamsTokensAreUnique(t *testing.T) {
	client := New("private_test_key", "public_test_key", "https://ik.imagekit.io/testing")

	first := client.AuthParams()
	second := client.AuthParams()

	assert.NotEqual(t, first.Token, second.Token)
	assert.NotEqual(t, first.Signature, second.Signature)
}
