package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendSMSDryRunSkipsNetwork(t *testing.T) {
	c := NewClientWithOptions("dry-run", "", false, zap.NewNop())
	c.BaseURL = "http://127.0.0.1:1"

	resp, err := c.SendSMS("+9779800000000", "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Code)
}

func TestSendSMSPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "key", r.PostForm.Get("apiKey"))
		assert.Equal(t, "+9779800000000", r.PostForm.Get("recipient"))
		assert.Equal(t, "paid", r.PostForm.Get("text"))
		assert.Equal(t, "ISP", r.PostForm.Get("from"))
		w.Write([]byte(`{"code":0,"data":{"messageId":"42"}}`))
	}))
	defer srv.Close()

	c := NewClientWithOptions("key", "ISP", false, zap.NewNop())
	c.BaseURL = srv.URL

	resp, err := c.SendSMS("+9779800000000", "paid")
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Data.MessageID)
}

func TestSendSMSGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":1,"message":"bad recipient"}`))
	}))
	defer srv.Close()

	c := NewClientWithOptions("key", "", false, zap.NewNop())
	c.BaseURL = srv.URL

	_, err := c.SendSMS("x", "paid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad recipient")
}
