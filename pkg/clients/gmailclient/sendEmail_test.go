package gmailclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("camps@relief.org", "v@x.com", "Assigned", "Hello")
	assert.Equal(t,
		"From: camps@relief.org\r\nTo: v@x.com\r\nSubject: Assigned\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\nHello",
		msg)
}

func TestBuildMessage_NoSender(t *testing.T) {
	msg := buildMessage("", "v@x.com", "Assigned", "Hello")
	assert.NotContains(t, msg, "From:")
}

func TestBuildMessage_StripsHeaderInjection(t *testing.T) {
	msg := buildMessage("", "v@x.com\r\nBcc: evil@x.com", "Hi", "Body")
	assert.Contains(t, msg, "To: v@x.com Bcc: evil@x.com\r\n")
	assert.NotContains(t, msg, "\nBcc:")
}
