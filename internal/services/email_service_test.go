package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	msgs []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.msgs = append(c.msgs, m...)
	return c.err
}

func TestSendStatementAttachesPDF(t *testing.T) {
	sender := &captureSender{}
	svc := &emailService{dialer: sender, from: "billing@example.com"}

	require.NoError(t, svc.SendStatement("ram@example.com", "Ram <Sons>", "statement.pdf", []byte("%PDF-1.3")))
	require.Len(t, sender.msgs, 1)
	m := sender.msgs[0]
	assert.Equal(t, []string{"ram@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your account statement"}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err := m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), `filename="statement.pdf"`)
	assert.Contains(t, raw.String(), "Ram &lt;Sons&gt;")
}

func TestSendDigestWrapsError(t *testing.T) {
	svc := &emailService{dialer: &captureSender{err: errBoom}, from: "a@b.c"}
	err := svc.SendDigest("owner@example.com", "s", "b")
	assert.ErrorIs(t, err, errBoom)
}
