package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContact() ContactEmailData {
	return ContactEmailData{
		SenderName:  "Ada",
		SenderEmail: "ada@example.com",
		Subject:     "Hello",
		Message:     "Hi there",
		SubmittedAt: time.Date(2026, time.March, 4, 15, 7, 9, 0, time.UTC),
	}
}

func TestRenderOwnerNotification(t *testing.T) {
	html, err := RenderOwnerNotification(sampleContact())
	require.NoError(t, err)

	assert.Contains(t, html, ">Ada</td>")
	assert.Contains(t, html, ">Hello</td>")
	assert.Contains(t, html, `href="mailto:ada@example.com"`)
	assert.Contains(t, html, "Hi there")
	assert.Contains(t, html, "Submitted on: 3/4/2026, 3:07:09 PM")
}

func TestRenderOwnerNotification_LineBreaks(t *testing.T) {
	data := sampleContact()
	data.Message = "line one\nline two\r\nline three"

	html, err := RenderOwnerNotification(data)
	require.NoError(t, err)

	assert.Contains(t, html, "line one<br>line two<br>line three")
}

func TestRenderOwnerNotification_EscapesInput(t *testing.T) {
	data := sampleContact()
	data.SenderName = `<script>alert("x")</script>`
	data.Subject = `<img src=x onerror=alert(1)>`
	data.Message = "<b>bold</b>\n<i>it</i>"

	html, err := RenderOwnerNotification(data)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, "<b>bold</b>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&lt;b&gt;bold&lt;/b&gt;<br>&lt;i&gt;it&lt;/i&gt;")
}

func TestRenderAutoReply(t *testing.T) {
	html, err := RenderAutoReply(AutoReplyData{
		Name:       "Ada",
		Subject:    "Hello",
		OwnerName:  "Ketan Thombare",
		OwnerTitle: "Full Stack Developer & AI Enthusiast",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Ada,")
	assert.Contains(t, html, "<strong>Hello</strong>")
	assert.Contains(t, html, "<strong>Ketan Thombare</strong>")
	assert.Contains(t, html, "Full Stack Developer &amp; AI Enthusiast")
	assert.Contains(t, html, "I typically respond within 24 hours")
}

func TestRenderAutoReply_EscapesInput(t *testing.T) {
	html, err := RenderAutoReply(AutoReplyData{Name: "O'Brien <b>", Subject: `"quoted"`, OwnerName: "Owner"})
	require.NoError(t, err)

	assert.Contains(t, html, "Hi O&#39;Brien &lt;b&gt;,")
	assert.Contains(t, html, "&#34;quoted&#34;")
	assert.Equal(t, 1, strings.Count(html, "<strong>Owner</strong>"))
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "New Contact Form Submission: Hello", OwnerNotificationSubject("Hello"))
	assert.Equal(t, "Thank you for reaching out! - Ketan Thombare", AutoReplySubject("Ketan Thombare"))
	assert.Equal(t, "Thank you for reaching out!", AutoReplySubject(""))
}
