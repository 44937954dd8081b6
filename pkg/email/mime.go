package email

import (
	"encoding/base64"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// BuildMIME renders msg as a single-part text/html RFC 5322 message.
func BuildMIME(msg Message, now time.Time) []byte {
	headers := []string{
		"From: " + sanitizeHeader(msg.From),
		"To: " + sanitizeHeader(msg.To),
	}
	if msg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+sanitizeHeader(msg.ReplyTo))
	}
	headers = append(headers,
		"Subject: "+encodeSubject(msg.Subject),
		"Date: "+now.Format(time.RFC1123Z),
		"Message-ID: "+messageID(msg.From),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
	)

	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")

	// Quoted-printable keeps every body line under 76 octets, however long
	// the submitted message is.
	qp := quotedprintable.NewWriter(&b)
	_, _ = qp.Write([]byte(msg.HTML))
	_ = qp.Close()
	return []byte(b.String())
}

// FormatAddress renders "Name <addr>" when a display name is set.
func FormatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return (&mail.Address{Name: name, Address: addr}).String()
}

// sanitizeHeader drops CR/LF so header values cannot start new headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

const (
	// maxHeaderLine is the RFC 5322 recommended line length.
	maxHeaderLine = 78
	// encodedChunk is the raw byte budget per B-encoded word (60 base64 chars).
	encodedChunk = 45
)

// encodeSubject returns a Subject value whose physical lines stay within
// RFC 5322 limits. Short values are Q-encoded as needed, plain ASCII is folded
// at spaces, and anything else becomes a run of folded B-encoded words.
func encodeSubject(subject string) string {
	subject = sanitizeHeader(subject)
	const prefix = len("Subject: ")

	if isASCII(subject) {
		if folded, ok := foldASCII(subject, prefix); ok {
			return folded
		}
	} else if encoded := mime.QEncoding.Encode("utf-8", subject); prefix+len(encoded) <= maxHeaderLine {
		return encoded
	}
	return encodeWords(subject)
}

// foldASCII breaks s at spaces. It fails when a single word cannot fit.
func foldASCII(s string, lineLen int) (string, bool) {
	var b strings.Builder
	for i, word := range strings.Split(s, " ") {
		if i > 0 {
			if lineLen+1+len(word) > maxHeaderLine {
				b.WriteString("\r\n")
				lineLen = 0
			}
			b.WriteString(" ")
			lineLen++
		}
		if lineLen+len(word) > maxHeaderLine {
			return "", false
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String(), true
}

// encodeWords splits s on rune boundaries into B-encoded words, one per line.
// Decoders join adjacent encoded words without the folding whitespace.
func encodeWords(s string) string {
	var words []string
	for len(s) > 0 {
		n := len(s)
		if n > encodedChunk {
			n = encodedChunk
			for n > 0 && !utf8.RuneStart(s[n]) {
				n--
			}
			if n == 0 {
				n = encodedChunk
			}
		}
		words = append(words, "=?utf-8?b?"+base64.StdEncoding.EncodeToString([]byte(s[:n]))+"?=")
		s = s[n:]
	}
	return strings.Join(words, "\r\n ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func messageID(from string) string {
	domain := "localhost"
	if addr, err := mail.ParseAddress(from); err == nil {
		if at := strings.LastIndex(addr.Address, "@"); at >= 0 {
			domain = addr.Address[at+1:]
		}
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}

// envelopeAddress extracts the bare address used for MAIL FROM / RCPT TO.
func envelopeAddress(v string) string {
	if addr, err := mail.ParseAddress(v); err == nil {
		return addr.Address
	}
	return strings.TrimSpace(v)
}
